// Package nav models the console's shareable navigation address. The address
// is a query string carrying the current selection; it is the only state the
// console exposes for deep-linking, mirroring the web console's URL bar.
package nav

import (
	"fmt"
	"net/url"
	"strings"
)

// Scheme prefixes rendered links so they are recognizable when pasted.
const Scheme = "amlv://explore"

// ClusterParam is the query parameter naming the selected cluster.
const ClusterParam = "cluster"

// Address is the mutable navigation state. The selection controller is the
// only writer; everything else reads or copies it.
type Address struct {
	values url.Values
}

// New returns an empty address.
func New() *Address {
	return &Address{values: url.Values{}}
}

// Parse accepts a bare query string ("cluster=CL-001"), a full link
// ("amlv://explore?cluster=CL-001"), or an http(s) URL with the same
// parameter, and returns the address it encodes.
func Parse(link string) (*Address, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return New(), nil
	}
	query := link
	if strings.Contains(link, "://") {
		u, err := url.Parse(link)
		if err != nil {
			return nil, fmt.Errorf("parsing link: %w", err)
		}
		query = u.RawQuery
	} else if i := strings.IndexByte(link, '?'); i >= 0 {
		query = link[i+1:]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("parsing link query: %w", err)
	}
	return &Address{values: values}, nil
}

// Cluster returns the cluster id named by the address, or "".
func (a *Address) Cluster() string {
	return a.values.Get(ClusterParam)
}

// SetCluster records the selected cluster in the address.
func (a *Address) SetCluster(id string) {
	if id == "" {
		a.values.Del(ClusterParam)
		return
	}
	a.values.Set(ClusterParam, id)
}

// Link renders the full shareable link.
func (a *Address) Link() string {
	q := a.values.Encode()
	if q == "" {
		return Scheme
	}
	return Scheme + "?" + q
}

// Query renders just the query-string form, as persisted in the session store.
func (a *Address) Query() string {
	return a.values.Encode()
}
