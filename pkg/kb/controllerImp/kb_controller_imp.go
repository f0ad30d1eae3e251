package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"piar/pkg/kb/serviceImp"
)

type KBCtrl struct{ svc *serviceImp.Svc }

func New(svc *serviceImp.Svc) *KBCtrl { return &KBCtrl{svc: svc} }

type ingestTextReq struct {
	Title string `json:"title"`
	Tags  string `json:"tags"`
	Text  string `json:"text"`
}

func (h *KBCtrl) IngestText(c echo.Context) error {
	var req ingestTextReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}
	d, n, err := h.svc.UpsertDocument(c.Request().Context(), req.Title, req.Tags, req.Text, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"doc": d, "chunks": n})
}

type ingestURLReq struct {
	URL  string `json:"url"`
	Tags string `json:"tags"`
}

func (h *KBCtrl) IngestURL(c echo.Context) error {
	var req ingestURLReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad json"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}
	d, n, err := h.svc.IngestURL(c.Request().Context(), req.URL, req.Tags)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{"doc": d, "chunks": n})
}

func (h *KBCtrl) Search(c echo.Context) error {
	q := c.QueryParam("q")
	k := 6
	if v := c.QueryParam("k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			k = n
		}
	}
	chunks, err := h.svc.Search(c.Request().Context(), q, k)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	ids := make([]uint, 0, len(chunks))
	seen := map[uint]bool{}
	for _, ch := range chunks {
		if !seen[ch.DocID] {
			seen[ch.DocID] = true
			ids = append(ids, ch.DocID)
		}
	}
	docs, err := h.svc.DocsMeta(ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"chunks": chunks, "docs": docs})
}

func (h *KBCtrl) Docs(c echo.Context) error {
	docs, err := h.svc.Docs()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, docs)
}
