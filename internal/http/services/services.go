// Package services es el composition root de los services HTTP.
//
//	svcs := services.New(deps)
//	ctrls := controllers.New(svcs, verifier, metrics)
//	router.New(router.Deps{Controllers: ctrls, ...})
package services

import (
	"time"

	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/http/services/admin"
	"github.com/dropDatabas3/ums/internal/http/services/health"
	"github.com/dropDatabas3/ums/internal/http/services/instructor"
	"github.com/dropDatabas3/ums/internal/http/services/student"
	"github.com/dropDatabas3/ums/internal/security/password"
)

type Deps struct {
	// ─── Infraestructura ───
	Store repository.Store
	Cache cache.Client // opcional; sin cache las estadísticas van directo al store

	// ─── Configuración ───
	StatsTTL     time.Duration
	QueryTimeout time.Duration
	HashParams   password.Params
	Policy       password.Policy
	Version      string
	Now          func() time.Time
}

type Services struct {
	Admin      admin.Services
	Instructor instructor.Service
	Student    student.Service
	Health     health.HealthService
}

func New(d Deps) *Services {
	var loader *cache.Loader
	if d.Cache != nil {
		loader = cache.NewLoader(d.Cache)
	}

	hd := health.Deps{Version: d.Version, DBCheck: d.Store.Ping}
	if d.Cache != nil {
		hd.CacheCheck = d.Cache.Ping
	}

	return &Services{
		Admin: admin.NewServices(admin.Deps{
			Store:        d.Store,
			Cache:        loader,
			StatsTTL:     d.StatsTTL,
			QueryTimeout: d.QueryTimeout,
			HashParams:   d.HashParams,
			Policy:       d.Policy,
		}),
		Instructor: instructor.NewService(instructor.Deps{
			Store:        d.Store,
			Cache:        loader,
			StatsTTL:     d.StatsTTL,
			QueryTimeout: d.QueryTimeout,
		}),
		Student: student.NewService(student.Deps{
			Store:        d.Store,
			Cache:        loader,
			QueryTimeout: d.QueryTimeout,
			Now:          d.Now,
		}),
		Health: health.NewHealthService(hd),
	}
}
