// Package routing решает, куда направить запрос консоли: в мастер первичной
// настройки, в маршруты рабочего пространства или на адрес, привязанный
// к первому рабочему пространству.
package routing

import (
	"errors"
	"strings"

	"github.com/magabrotheeeer/cloud-console/internal/models"
)

// ErrNoWorkspaces возвращается, когда устаревший путь нужно привязать
// к рабочему пространству, а список рабочих пространств пуст.
var ErrNoWorkspaces = errors.New("no workspaces available for redirect")

// Kind вид решения маршрутизации.
type Kind string

const (
	// KindRedirect перенаправить браузер на Decision.Location.
	KindRedirect Kind = "redirect"
	// KindSetup показать мастер первичной настройки.
	KindSetup Kind = "setup"
	// KindAuthFlow завершить OAuth-запрос.
	KindAuthFlow Kind = "auth_flow"
	// KindWorkspaces показать список рабочих пространств.
	KindWorkspaces Kind = "workspaces"
	// KindMain показать основные маршруты рабочего пространства.
	KindMain Kind = "main"
)

// Request входные данные одного решения.
type Request struct {
	Path                 string
	RawQuery             string
	InitialSetupComplete bool
	Workspaces           []models.Workspace // в порядке листинга
	NewWorkspacesUI      bool               // workspaces.newWorkspacesUI
}

// Decision результат маршрутизации.
type Decision struct {
	Kind        Kind   `json:"kind"`
	Route       string `json:"route"`
	Location    string `json:"location,omitempty"`
	WorkspaceID string `json:"workspaceId,omitempty"`
	SubPath     string `json:"subPath,omitempty"`
}

// Resolve принимает решение о маршруте для запрошенного пути.
func Resolve(req Request) (Decision, error) {
	path := normalize(req.Path)
	segments := split(path)

	if !req.InitialSetupComplete {
		setup := "/" + PathSetup
		if len(segments) == 1 && segments[0] == PathSetup {
			return Decision{Kind: KindSetup, Route: setup}, nil
		}
		return Decision{Kind: KindRedirect, Route: setup, Location: setup}, nil
	}

	if len(segments) > 0 && segments[0] == PathAuthFlow {
		return Decision{Kind: KindAuthFlow, Route: path}, nil
	}

	if len(segments) == 1 && segments[0] == PathWorkspaces && req.NewWorkspacesUI {
		return Decision{Kind: KindWorkspaces, Route: path}, nil
	}

	if len(segments) >= 2 && segments[0] == PathWorkspaces {
		return resolveScoped(segments[1], segments[2:]), nil
	}

	if len(req.Workspaces) == 0 {
		return Decision{}, ErrNoWorkspaces
	}
	return redirectToFirst(path, req.RawQuery, req.Workspaces[0]), nil
}

func resolveScoped(workspaceID string, rest []string) Decision {
	base := "/" + PathWorkspaces + "/" + workspaceID

	if len(rest) == 0 || !IsMainRoute(rest[0]) {
		target := base + "/" + PathConnections
		return Decision{
			Kind:        KindRedirect,
			Route:       target,
			Location:    target,
			WorkspaceID: workspaceID,
		}
	}

	sub := "/" + strings.Join(rest, "/")
	return Decision{
		Kind:        KindMain,
		Route:       base + sub,
		WorkspaceID: workspaceID,
		SubPath:     sub,
	}
}

// WorkspaceURL строит адрес вида /workspaces/{id}{path}?{query}.
// Строка запроса переносится без изменений.
func WorkspaceURL(workspaceID, path, rawQuery string) string {
	u := "/" + PathWorkspaces + "/" + workspaceID + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

func redirectToFirst(path, rawQuery string, ws models.Workspace) Decision {
	id := ws.ID.String()
	return Decision{
		Kind:        KindRedirect,
		Route:       "/" + PathWorkspaces + "/" + id + path,
		Location:    WorkspaceURL(id, path, rawQuery),
		WorkspaceID: id,
	}
}

// normalize добавляет ведущий слэш. Остальной путь, включая завершающий
// слэш, переносится в адрес перенаправления как есть.
func normalize(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func split(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
