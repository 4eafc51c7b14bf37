package cache

import (
	"fmt"
	"time"
)

const (
	UserKeyPrefix = "user:%d"
	UserTTL       = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}
