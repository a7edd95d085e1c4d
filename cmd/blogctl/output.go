package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrymomot/blogclient/pkg/blog"
)

// table prints rows aligned in columns.
func (a *app) table(header []string, rows [][]string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func (a *app) pageFooter(p blog.PageInfo) {
	if p.TotalPages > 1 {
		a.println(fmt.Sprintf("page %d/%d, %d total", p.Number+1, p.TotalPages, p.TotalElements))
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", blog.ErrInvalidID, s)
	}
	return id, nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
