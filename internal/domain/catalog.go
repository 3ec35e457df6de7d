package domain

import "sort"

// Catalog holds the id to name maps every screen needs at startup.
type Catalog struct {
	Equipment     map[string]string `json:"equipos"`
	Clients       map[string]string `json:"clientes"`
	Operators     map[string]string `json:"operadores"`
	Accounts      map[string]string `json:"cuentas"`
	Categories    map[string]string `json:"categorias"`
	Subcategories map[string]string `json:"subcategorias"`
}

// Option is an entry of a dropdown list.
type Option struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// SortOptions orders options by name, then id.
func SortOptions(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		if opts[i].Name != opts[j].Name {
			return opts[i].Name < opts[j].Name
		}
		return opts[i].ID < opts[j].ID
	})
}
