package session

// Routes known to the shell.
const (
	RouteHome     = "/"
	RouteCatalog  = "/catalog"
	RouteCheckout = "/checkout"
)

// ResolveRoute maps path onto a known route. Unknown paths fall back to home.
func ResolveRoute(path string) string {
	switch path {
	case RouteHome, RouteCatalog, RouteCheckout:
		return path
	default:
		return RouteHome
	}
}
