package menu

// patterns are the canonical location names per role, highest priority first.
var patterns = map[Role][]string{
	RoleHeader: {
		"primary", "header", "main", "navigation", "nav", "top",
		"primary-navigation", "main-navigation", "header-navigation",
		"primary-menu", "main-menu", "header-menu",
	},
	RoleFooter: {
		"footer", "bottom", "secondary", "footer-navigation", "footer-menu",
		"bottom-navigation", "secondary-navigation", "utility",
	},
}

// fallbacks are tried last even when no such location is registered; themes
// often assign menus to these ids without declaring them.
var fallbacks = map[Role][]string{
	RoleHeader: {"primary", "main", "header", "menu-1", "top"},
	RoleFooter: {"footer", "footer-menu", "secondary", "menu-2", "bottom"},
}
