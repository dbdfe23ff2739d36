// Package http implements the JSON admin API over echo. It is a thin
// adapter: every handler validates the payload shape, calls one inbound
// port operation and maps domain errors onto HTTP status codes.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"devrouter/internal/boundaries/in"
	"devrouter/internal/domain"
)

// maxRequestSize bounds admin API request bodies.
const maxRequestSize = "1M"

// Handler exposes the routing, cert and env services as a JSON API.
type Handler struct {
	routing in.RoutingService
	cert    in.CertService
	env     in.EnvService
}

// NewHandler creates a new API handler.
func NewHandler(routing in.RoutingService, cert in.CertService, env in.EnvService) *Handler {
	return &Handler{routing: routing, cert: cert, env: env}
}

// Register binds all API routes on the given echo instance.
func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api", echomw.BodyLimit(maxRequestSize))

	api.GET("/health", h.health)

	api.GET("/domains", h.listDomains)
	api.POST("/domains", h.addDomain)
	api.PUT("/domains", h.setCurrentDomain)
	api.DELETE("/domains", h.deleteDomain)

	api.GET("/groups", h.listGroups)
	api.POST("/groups", h.addGroup)
	api.PUT("/groups", h.reorderGroups)
	api.DELETE("/groups", h.deleteGroup)

	api.GET("/routes", h.listRoutes)
	api.POST("/routes", h.addRoute)
	api.DELETE("/routes", h.deleteRoute)

	api.POST("/scan", h.scan)

	api.GET("/cert", h.certStatus)
	api.POST("/cert", h.certEnable)

	api.GET("/env", h.envCheck)
}

type domainRequest struct {
	Domain string `json:"domain"`
}

type groupRequest struct {
	Path string `json:"path"`
}

type orderRequest struct {
	Order []string `json:"order"`
}

type routeRequest struct {
	Slug   string `json:"slug"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

type slugRequest struct {
	Slug string `json:"slug"`
}

func (h *Handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listDomains(c echo.Context) error {
	domains, warning, err := h.routing.ListDomains(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, withWarning(echo.Map{"baseDomains": domains}, warning))
}

func (h *Handler) addDomain(c echo.Context) error {
	var req domainRequest
	if err := c.Bind(&req); err != nil || req.Domain == "" {
		return h.badRequest(c, "domain is required")
	}
	domains, err := h.routing.AddDomain(c.Request().Context(), req.Domain)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"baseDomains": domains})
}

func (h *Handler) setCurrentDomain(c echo.Context) error {
	var req domainRequest
	if err := c.Bind(&req); err != nil || req.Domain == "" {
		return h.badRequest(c, "domain is required")
	}
	domains, err := h.routing.SetCurrentDomain(c.Request().Context(), req.Domain)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"baseDomains": domains})
}

func (h *Handler) deleteDomain(c echo.Context) error {
	var req domainRequest
	if err := c.Bind(&req); err != nil || req.Domain == "" {
		return h.badRequest(c, "domain is required")
	}
	domains, err := h.routing.DeleteDomain(c.Request().Context(), req.Domain)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"baseDomains": domains})
}

func (h *Handler) listGroups(c echo.Context) error {
	groups, warning, err := h.routing.ListGroups(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, withWarning(echo.Map{"groups": groups}, warning))
}

func (h *Handler) addGroup(c echo.Context) error {
	var req groupRequest
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return h.badRequest(c, "path is required")
	}
	groups, err := h.routing.AddGroup(c.Request().Context(), req.Path)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"groups": groups})
}

func (h *Handler) reorderGroups(c echo.Context) error {
	var req orderRequest
	if err := c.Bind(&req); err != nil || req.Order == nil {
		return h.badRequest(c, "order (array of group paths) is required")
	}
	groups, err := h.routing.ReorderGroups(c.Request().Context(), req.Order)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}

func (h *Handler) deleteGroup(c echo.Context) error {
	var req groupRequest
	if err := c.Bind(&req); err != nil || req.Path == "" {
		return h.badRequest(c, "path is required")
	}
	groups, err := h.routing.DeleteGroup(c.Request().Context(), req.Path)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"groups": groups})
}

func (h *Handler) listRoutes(c echo.Context) error {
	routes, warning, err := h.routing.ListRoutes(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, withWarning(echo.Map{"routes": routes}, warning))
}

func (h *Handler) addRoute(c echo.Context) error {
	var req routeRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c, "invalid request body")
	}
	if req.Slug == "" {
		return h.badRequest(c, "slug is required")
	}
	if req.Target == "" {
		return h.badRequest(c, "target is required")
	}
	routes, err := h.routing.AddRoute(c.Request().Context(), domain.Route{
		Slug:   req.Slug,
		Target: req.Target,
		Type:   domain.RouteType(req.Type),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"routes": routes})
}

func (h *Handler) deleteRoute(c echo.Context) error {
	var req slugRequest
	if err := c.Bind(&req); err != nil || req.Slug == "" {
		return h.badRequest(c, "slug is required")
	}
	routes, err := h.routing.DeleteRoute(c.Request().Context(), req.Slug)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"routes": routes})
}

func (h *Handler) scan(c echo.Context) error {
	groups, err := h.routing.Rescan(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "scan complete", "groups": groups})
}

func (h *Handler) certStatus(c echo.Context) error {
	status, err := h.cert.Status(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *Handler) certEnable(c echo.Context) error {
	var req domainRequest
	if err := c.Bind(&req); err != nil || req.Domain == "" {
		return h.badRequest(c, "domain is required")
	}
	result, err := h.cert.Enable(c.Request().Context(), req.Domain)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "HTTPS enabled",
		"baseDomains": result.Domains,
		"sans":        result.SANs,
	})
}

func (h *Handler) envCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, h.env.Check(c.Request().Context()))
}

func (h *Handler) badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": message})
}

// fail maps domain errors onto HTTP status codes: conflicts to 409,
// not-found to 404, validation and invariant protection to 400, everything
// else (write failures) to 500.
func (h *Handler) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrDomainExists),
		errors.Is(err, domain.ErrGroupExists),
		errors.Is(err, domain.ErrRouteExists),
		errors.Is(err, domain.ErrGroupOrderMismatch):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrDomainNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrRouteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSlug),
		errors.Is(err, domain.ErrInvalidDomain),
		errors.Is(err, domain.ErrInvalidRouteType),
		errors.Is(err, domain.ErrTargetNotDirectory),
		errors.Is(err, domain.ErrInvalidProxyTarget),
		errors.Is(err, domain.ErrCurrentDomainProtected),
		errors.Is(err, domain.ErrMkcertNotInstalled),
		errors.Is(err, domain.ErrMkcertCANotFound),
		errors.Is(err, domain.ErrNoSSLDomains):
		status = http.StatusBadRequest
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func withWarning(payload echo.Map, warning string) echo.Map {
	if warning != "" {
		payload["warning"] = warning
	}
	return payload
}
