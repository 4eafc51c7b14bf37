package models

import (
	"fmt"
	"net/url"
	"strconv"
)

// PageLink is one entry of the paginator's navigation list.
type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is a length-aware page of results with navigation metadata.
type Page[T any] struct {
	CurrentPage  int        `json:"current_page"`
	Data         []T        `json:"data"`
	FirstPageURL string     `json:"first_page_url"`
	From         *int       `json:"from"`
	LastPage     int        `json:"last_page"`
	LastPageURL  string     `json:"last_page_url"`
	Links        []PageLink `json:"links"`
	NextPageURL  *string    `json:"next_page_url"`
	Path         string     `json:"path"`
	PerPage      int        `json:"per_page"`
	PrevPageURL  *string    `json:"prev_page_url"`
	To           *int       `json:"to"`
	Total        int64      `json:"total"`
}

// NewPage assembles page metadata for items. path is the absolute URL of the listing,
// query carries the other request parameters to keep in page URLs.
func NewPage[T any](items []T, total int64, page, perPage int, path string, query url.Values) Page[T] {
	if items == nil {
		items = []T{}
	}
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	pageURL := func(n int) string {
		q := url.Values{}
		for k, v := range query {
			if k == "page" {
				continue
			}
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return fmt.Sprintf("%s?%s", path, q.Encode())
	}

	p := Page[T]{
		CurrentPage:  page,
		Data:         items,
		FirstPageURL: pageURL(1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}

	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From = &from
		p.To = &to
	}
	if page > 1 {
		prev := pageURL(page - 1)
		p.PrevPageURL = &prev
	}
	if page < lastPage {
		next := pageURL(page + 1)
		p.NextPageURL = &next
	}

	p.Links = append(p.Links, PageLink{URL: p.PrevPageURL, Label: "&laquo; Previous"})
	for n := 1; n <= lastPage; n++ {
		u := pageURL(n)
		p.Links = append(p.Links, PageLink{URL: &u, Label: strconv.Itoa(n), Active: n == page})
	}
	p.Links = append(p.Links, PageLink{URL: p.NextPageURL, Label: "Next &raquo;"})

	return p
}
