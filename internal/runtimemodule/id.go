package runtimemodule

import (
	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

// ID identifies an internally generated runtime module.
type ID string

const (
	GlobalStyles     ID = "virtual-global-styles"
	GlobalComponents ID = "virtual-global-components"
	RouteForClient   ID = "virtual-routes"
	RouteForSSR      ID = "virtual-routes-ssr"
	SiteData         ID = "virtual-site-data"
	SearchIndexHash  ID = "virtual-search-index-hash"
	I18nText         ID = "virtual-i18n-text"
	SearchHooks      ID = "virtual-search-hooks"
	PrismLanguages   ID = "virtual-prism-languages"
)

var allIDs = []ID{
	GlobalStyles,
	GlobalComponents,
	RouteForClient,
	RouteForSSR,
	SiteData,
	SearchIndexHash,
	I18nText,
	SearchHooks,
	PrismLanguages,
}

// IDs returns every internal module identifier in declaration order.
func IDs() []ID {
	out := make([]ID, len(allIDs))
	copy(out, allIDs)
	return out
}

func (id ID) String() string { return string(id) }

// IsKnown reports whether s is one of the internal module identifiers.
func IsKnown(s string) bool {
	for _, id := range allIDs {
		if string(id) == s {
			return true
		}
	}
	return false
}

// ParseID converts s into an ID, failing for identifiers outside the closed set.
func ParseID(s string) (ID, error) {
	if !IsKnown(s) {
		return "", errors.NotFoundError("unknown runtime module identifier").
			WithContext("module_id", s).Build()
	}
	return ID(s), nil
}
