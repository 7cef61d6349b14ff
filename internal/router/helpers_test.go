package router

import (
	"net/url"
	"strconv"
)

func urlEncode(s string) string { return url.QueryEscape(s) }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
