package engine

import (
	"net/http"

	"github.com/blevesearch/bleve"
	"github.com/drummonds/posadmin/config"
	"github.com/drummonds/posadmin/modules"
	"github.com/drummonds/posadmin/webapp"
	"github.com/labstack/echo/v4"
)

// Version is set at build time via ldflags
var Version = "dev"

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	Router       *webapp.Router
	SearchDB     bleve.Index
	Echo         *echo.Echo
	ServerConfig config.ServerConfig
	Metrics      *LoaderMetrics
}

type routeInfo struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Section  string `json:"section"`
	Module   string `json:"module,omitempty"`
	State    string `json:"state,omitempty"`
	InLayout bool   `json:"inLayout"`
	Index    bool   `json:"index"`
	CatchAll bool   `json:"catchAll"`
}

type routeList struct {
	Routes []routeInfo `json:"routes"`
	Count  int         `json:"count"`
}

func newRouteInfo(b webapp.Binding) routeInfo {
	info := routeInfo{
		Path:     b.Path,
		Title:    b.Route.Title,
		Section:  b.Route.Section,
		Module:   b.Route.Module,
		InLayout: b.InLayout,
		Index:    b.Route.Index,
		CatchAll: b.NotFound(),
	}
	if b.Route.Handle != nil {
		info.State = b.Route.Handle.State().String()
	}
	return info
}

// GetRoutes returns the route table in evaluation order
func (serverHandler *ServerHandler) GetRoutes(c echo.Context) error {
	bindings := serverHandler.Router.Bindings()
	list := routeList{Routes: make([]routeInfo, 0, len(bindings))}
	for _, b := range bindings {
		list.Routes = append(list.Routes, newRouteInfo(b))
	}
	list.Count = len(list.Routes)
	return c.JSON(http.StatusOK, list)
}

// MatchRoute reports which route a path resolves to
func (serverHandler *ServerHandler) MatchRoute(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return c.JSON(http.StatusBadRequest, "Empty path")
	}
	return c.JSON(http.StatusOK, newRouteInfo(serverHandler.Router.Match(path)))
}

// SearchRoutes will take the search term and search the console pages
func (serverHandler *ServerHandler) SearchRoutes(c echo.Context) error {
	searchTerm := c.QueryParam("term")
	if searchTerm == "" {
		return c.JSON(http.StatusNotFound, "Empty search term")
	}
	paths, err := SearchPages(searchTerm, serverHandler.SearchDB)
	if err != nil {
		Logger.Error("Search failed", "error", err, "searchTerm", searchTerm)
		return c.JSON(http.StatusInternalServerError, err.Error())
	}
	if len(paths) == 0 {
		Logger.Info("Search returned no results", "searchTerm", searchTerm)
		return c.NoContent(http.StatusNoContent)
	}
	results := make([]routeInfo, 0, len(paths))
	for _, p := range paths {
		results = append(results, newRouteInfo(serverHandler.Router.Match(p)))
	}
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}

// GetHealth reports the resolution state of every page module
func (serverHandler *ServerHandler) GetHealth(c echo.Context) error {
	summary := serverHandler.HealthSummary()
	status := http.StatusOK
	if summary.Failed > 0 {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, summary)
}

// GetAboutInfo returns information about the application configuration
func (serverHandler *ServerHandler) GetAboutInfo(c echo.Context) error {
	aboutInfo := map[string]any{
		"name":           serverHandler.ServerConfig.AppName,
		"description":    serverHandler.ServerConfig.AppDescription,
		"version":        Version,
		"routeCount":     len(serverHandler.Router.Bindings()),
		"moduleCount":    len(modules.Specs()),
		"prefetch":       serverHandler.ServerConfig.Prefetch,
		"metricsEnabled": serverHandler.ServerConfig.Metrics.Enabled,
	}
	return c.JSON(http.StatusOK, aboutInfo)
}
