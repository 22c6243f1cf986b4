package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/rushteam/seedrec/core"
	"github.com/rushteam/seedrec/service"
	"github.com/rushteam/seedrec/store"
)

// maxBodyBytes 是推荐请求体的大小上限。
const maxBodyBytes = 1 << 20

// Recommender 是推荐服务接口。
type Recommender interface {
	Recommend(ctx context.Context, req service.Request) (*service.Response, error)
}

// Readiness 提供目录加载状态。
type Readiness interface {
	Ready() bool
	Info(ctx context.Context, d core.Domain) (*store.CatalogInfo, error)
}

// RecommendRequest 是推荐接口的请求体。
type RecommendRequest struct {
	Titles []string `json:"titles" validate:"max=50,dive,max=512"`
	Mood   string   `json:"mood" validate:"max=64"`
	Era    string   `json:"era" validate:"max=64"`
	Genre  string   `json:"genre" validate:"max=64"`
	Domain string   `json:"domain" validate:"max=32"`
	Limit  int      `json:"limit" validate:"gte=0"`
	Filter string   `json:"filter" validate:"max=1024"`
}

// Handler 持有 HTTP 处理函数的依赖。
type Handler struct {
	recommender Recommender
	readiness   Readiness
	domains     []core.Domain
	validate    *validator.Validate
}

func NewHandler(rec Recommender, readiness Readiness, domains []core.Domain) *Handler {
	return &Handler{
		recommender: rec,
		readiness:   readiness,
		domains:     domains,
		validate:    validator.New(),
	}
}

// Root 处理 GET /
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Recommendation API is running"})
}

// Healthz 处理 GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz 处理 GET /readyz：所有领域目录加载完成时返回 200 与各领域行数。
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil || !h.readiness.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	catalogs := make([]*store.CatalogInfo, 0, len(h.domains))
	for _, d := range h.domains {
		info, err := h.readiness.Info(r.Context(), d)
		if err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"domain": string(d),
				"error":  err.Error(),
			})
			return
		}
		catalogs = append(catalogs, info)
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready", "catalogs": catalogs})
}

// Recommend 处理 POST /recommendations，领域取自请求体。
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	h.recommend(w, r, "")
}

// RecommendFor 返回固定领域的推荐处理函数（/recommendations/books 等）。
func (h *Handler) RecommendFor(d core.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.recommend(w, r, d)
	}
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, forced core.Domain) {
	req, err := h.decode(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if forced != "" {
		req.Domain = string(forced)
	}

	resp, err := h.recommender.Recommend(r.Context(), service.Request{
		Titles: req.Titles,
		Mood:   req.Mood,
		Era:    req.Era,
		Genre:  req.Genre,
		Domain: req.Domain,
		Limit:  req.Limit,
		Filter: req.Filter,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*RecommendRequest, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	var req RecommendRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, maxErr
		}
		if errors.Is(err, io.EOF) {
			return nil, core.InvalidInputf(core.ModuleService, "request body is empty")
		}
		return nil, core.InvalidInputf(core.ModuleService, "malformed request body: %v", err)
	}
	if len(req.Titles) == 0 {
		return nil, core.ErrNoTitles
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, core.InvalidInputf(core.ModuleService, "invalid request: %s", describe(err))
	}
	return &req, nil
}

// describe 把校验错误转换为简短描述。
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
