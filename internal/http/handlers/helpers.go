package handlers

import (
	"strconv"
	"strings"
)

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func pagesFromTotal(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	n := int(total) / pageSize
	if int(total)%pageSize != 0 {
		n++
	}
	return n
}
