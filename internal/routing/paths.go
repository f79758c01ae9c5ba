package routing

// Пути верхнего уровня консоли без ведущего слеша.
const (
	PathSetup            = "setup"
	PathAuthFlow         = "auth_flow"
	PathWorkspaces       = "workspaces"
	PathConnections      = "connections"
	PathSource           = "source"
	PathDestination      = "destination"
	PathSettings         = "settings"
	PathConnectorBuilder = "connector-builder"
)

// mainRoutes разделы, которые отрисовываются внутри рабочего пространства.
var mainRoutes = map[string]struct{}{
	PathConnections:      {},
	PathSource:           {},
	PathDestination:      {},
	PathSettings:         {},
	PathConnectorBuilder: {},
}

// IsMainRoute сообщает, является ли сегмент разделом основного приложения.
func IsMainRoute(segment string) bool {
	_, ok := mainRoutes[segment]
	return ok
}
