package content

import "strings"

// AliasPreferences controls which aliases are shown next to item names.
type AliasPreferences struct {
	ShowAllNamespaces  bool
	ShowNamespaceNames bool
	PreferredNamespace string
}

// AliasString renders the aliases of the entry for display.
//
// With ShowAllNamespaces every alias is listed. Otherwise only aliases in
// PreferredNamespace are listed, and nothing is shown when no namespace is
// preferred. Aliases are separated by a single space and, with
// ShowNamespaceNames, prefixed by "namespace::".
func (e Entry) AliasString(prefs AliasPreferences) string {
	return FormatAliases(e.Aliases, prefs)
}

// FormatAliases applies the display rules of AliasString to a list.
func FormatAliases(aliases []Alias, prefs AliasPreferences) string {
	if len(aliases) == 0 {
		return ""
	}
	if !prefs.ShowAllNamespaces && prefs.PreferredNamespace == "" {
		return ""
	}

	parts := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if !prefs.ShowAllNamespaces && a.Namespace != prefs.PreferredNamespace {
			continue
		}
		if prefs.ShowNamespaceNames {
			parts = append(parts, a.Namespace+"::"+a.Name)
		} else {
			parts = append(parts, a.Name)
		}
	}
	return strings.Join(parts, " ")
}
