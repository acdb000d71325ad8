package main

import (
	"fmt"
	"strings"

	"github.com/langcheck/langcheck/contract"
)

// Demo contracts: hostname extraction over the built-in URL and Host types.
// The naive extractor drops the last character of the host when the URL has
// no path; the fixed one handles that form and carries the selector oracle.

var demoContractNames = []string{"hostname", "hostname-naive"}

// getHostname slices between "://" and the next "/". When the URL has no
// path it silently drops the final character of the host.
func getHostname(url string) string {
	start := strings.Index(url, "://") + 3
	end := strings.Index(url[start:], "/")
	if end < 0 {
		return url[start : len(url)-1]
	}
	return url[start : start+end]
}

// getHostnameFixed treats a missing "/" as end-of-string.
func getHostnameFixed(url string) string {
	start := strings.Index(url, "://") + 3
	end := strings.Index(url[start:], "/")
	if end < 0 {
		return url[start:]
	}
	return url[start : start+end]
}

func demoRegistry() *contract.Registry {
	registry := contract.NewRegistry()

	hostOracle := func(pc *contract.Context) (bool, error) {
		want, err := pc.Select(contract.URLType, "..host", pc.Args[0])
		if err != nil {
			return false, err
		}
		return pc.Result == want, nil
	}

	wrap := func(fn func(string) string) contract.Callable {
		return func(args []string) (string, error) {
			if len(args) != 1 {
				return "", fmt.Errorf("want 1 argument, got %d", len(args))
			}
			return fn(args[0]), nil
		}
	}

	declare := func(c *contract.Contract) {
		if _, err := registry.Declare(c); err != nil {
			panic(err)
		}
	}

	declare(&contract.Contract{
		Name:   "hostname",
		Fn:     wrap(getHostnameFixed),
		Params: []*contract.LanguageType{contract.URLType},
		Return: contract.HostType,
		Post:   hostOracle,
		Selectors: []contract.TypedPath{
			{Type: contract.URLType, Path: "..host"},
		},
	})

	declare(&contract.Contract{
		Name:   "hostname-naive",
		Fn:     wrap(getHostname),
		Params: []*contract.LanguageType{contract.URLType},
		Return: contract.HostType,
		Post:   hostOracle,
		Selectors: []contract.TypedPath{
			{Type: contract.URLType, Path: "..host"},
		},
	})

	return registry
}
