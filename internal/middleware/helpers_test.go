package middleware

import (
	"encoding/json"
	"net/http"
)

func decodeJSON(resp *http.Response, dest any) error {
	return json.NewDecoder(resp.Body).Decode(dest)
}
