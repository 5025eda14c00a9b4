package api

import (
	"context"

	"github.com/civicdesk/civicdesk/internal/errors"
)

// Pager walks the complaint listing one page at a time. Fetches are
// sequential by construction: each Next call uses the previous page's
// result to decide whether another request is allowed, so it is a caller
// error to advance past a page with last=true.
type Pager struct {
	client *Client
	status ComplaintStatus
	size   int

	page int
	done bool
}

// NewPager creates a pager over the current user's complaints
func (c *Client) NewPager(status ComplaintStatus, size int) *Pager {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pager{
		client: c,
		status: status,
		size:   size,
	}
}

// HasMore reports whether another page may be requested
func (p *Pager) HasMore() bool {
	return !p.done
}

// Next fetches the next page, starting at page 0
func (p *Pager) Next(ctx context.Context) (*ComplaintPage, error) {
	if p.done {
		return nil, errors.New(errors.ErrCodeAPIPagination, "no more pages: previous page was the last")
	}

	result, err := p.client.ListMine(ctx, p.status, p.page, p.size)
	if err != nil {
		return nil, err
	}

	p.page++
	if result.Last {
		p.done = true
	}

	return result, nil
}

// All walks every remaining page and returns the concatenated complaints in
// backend order
func (p *Pager) All(ctx context.Context) ([]Complaint, error) {
	var all []Complaint
	for p.HasMore() {
		page, err := p.Next(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Content...)
	}
	return all, nil
}
