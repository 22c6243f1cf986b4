// Package api 提供推荐服务的 HTTP 接口。
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/seedrec/core"
)

// RouterConfig 是路由层配置。
type RouterConfig struct {
	CORSOrigins     []string
	RateLimit       int
	RateLimitWindow time.Duration
	RequestTimeout  time.Duration
}

// NewRouter 构建 HTTP 路由。
//
//	GET  /                          服务状态
//	GET  /healthz /readyz /metrics  健康检查与指标
//	POST /recommendations           按请求体中的 domain 推荐
//	POST /recommendations/books     固定领域推荐（anime / movies 同理）
//
// 路径末尾的斜杠会被忽略。
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(AccessLog())
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.CORSOrigins))

	r.Get("/", h.Root)
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/recommendations", func(r chi.Router) {
		r.Use(RateLimit("recommendations", cfg.RateLimit, cfg.RateLimitWindow))
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}
		r.Post("/", h.Recommend)
		r.Post("/books", h.RecommendFor(core.DomainBook))
		r.Post("/anime", h.RecommendFor(core.DomainAnime))
		r.Post("/movies", h.RecommendFor(core.DomainMovie))
	})

	return r
}
