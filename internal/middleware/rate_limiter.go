package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gimenezlucas594-sudo/stocking-app/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// visitante tracks one IP inside the current window.
type visitante struct {
	intentos int
	reinicio time.Time
}

// limiter is a per-route fixed-window counter keyed by client IP. Each call to
// RateLimiter or LoginRateLimiter owns its own instance, so the login window
// never shares state with the general API window.
type limiter struct {
	mu      sync.Mutex
	visitas map[string]*visitante
	limite  int
	ventana time.Duration
}

func newLimiter(limite int, ventana time.Duration) *limiter {
	l := &limiter{
		visitas: make(map[string]*visitante),
		limite:  limite,
		ventana: ventana,
	}
	go l.limpiar()
	return l
}

func (l *limiter) permitir(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.visitas[ip]
	if !ok || now.After(v.reinicio) {
		l.visitas[ip] = &visitante{intentos: 1, reinicio: now.Add(l.ventana)}
		return true
	}
	v.intentos++
	return v.intentos <= l.limite
}

// limpiar drops IPs whose window already closed so the map does not grow
// unbounded with one-off clients.
func (l *limiter) limpiar() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		l.mu.Lock()
		expiradas := 0
		for ip, v := range l.visitas {
			if now.After(v.reinicio) {
				delete(l.visitas, ip)
				expiradas++
			}
		}
		activas := len(l.visitas)
		l.mu.Unlock()

		if expiradas > 0 {
			log.Debug().
				Int("ips_expiradas", expiradas).
				Int("ips_activas", activas).
				Msg("limpieza de rate limiter")
		}
	}
}

// RateLimiter caps requests per IP inside a fixed window. Exceeding clients
// get 429 with a Retry-After hint.
func RateLimiter(limite int, ventana time.Duration) gin.HandlerFunc {
	l := newLimiter(limite, ventana)
	return func(c *gin.Context) {
		if !l.permitir(c.ClientIP()) {
			c.Header("Retry-After", ventana.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter protects the credential check: 10 attempts per minute per
// IP, tight enough to slow brute force without locking out a shared kiosk.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(10, time.Minute)
	return func(c *gin.Context) {
		if !l.permitir(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login, espere un minuto"))
			return
		}
		c.Next()
	}
}
