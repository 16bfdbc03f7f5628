package router

import (
	"time"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/config"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/handler"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/middleware"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/repository"
	"github.com/gimenezlucas594-sudo/stocking-app/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	localRepo := repository.NewLocalRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, localRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, movimientoRepo, rdb)
	localSvc := service.NewLocalService(localRepo, usuarioRepo, ventaRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, usuarioRepo, movimientoRepo)
	inventarioSvc := service.NewInventarioService(movimientoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	localesH := handler.NewLocalesHandler(localSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/api/health", handler.Health(db, rdb))
	r.GET("/api/precio/:barcode", consultaH.GetPrecioPorBarcode)

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		// Ventas — any authenticated role; read side is scoped in the service
		api.POST("/ventas", ventasH.RegistrarVenta)
		api.GET("/ventas", ventasH.ListarVentas)
		api.GET("/ventas/:id", ventasH.ObtenerVenta)

		// Productos — any role can read, jefes mutate
		api.GET("/productos", productosH.Listar)
		api.GET("/productos/:id", productosH.ObtenerPorID)
		prods := api.Group("/productos", middleware.RequireJefe())
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Inventario — movement audit, jefes only
		api.GET("/inventario/movimientos", middleware.RequireJefe(), inventarioH.ListarMovimientos)

		// Locales — any role can read, jefes mutate
		api.GET("/locales", localesH.Listar)
		api.GET("/locales/:id", localesH.ObtenerPorID)
		locales := api.Group("/locales", middleware.RequireJefe())
		{
			locales.POST("", localesH.Crear)
			locales.PUT("/:id", localesH.Actualizar)
			locales.DELETE("/:id", localesH.Eliminar)
		}

		// Usuarios — jefes only
		usuarios := api.Group("/users", middleware.RequireJefe())
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
