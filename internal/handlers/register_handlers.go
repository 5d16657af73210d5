package handlers

import (
	portssvc "github.com/MKH354/hutangku/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	RegisterCustomValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// RegisterCustomValidations installs the custom binding rules on gin's
// validator engine. Safe to call more than once.
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// dueday: a day-of-month between 1 and 31. Clamping to short months
		// happens at projection time, not at input time.
		_ = v.RegisterValidation("dueday", func(fl validator.FieldLevel) bool {
			day := fl.Field().Int()
			return day >= 1 && day <= 31
		})
	}
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations. Every ledger route is scoped by sync key.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	ledger := v1.Group("/ledgers/:syncKey")
	registerDebtRoutes(ledger, services.Ledger)
	registerInstallmentRoutes(ledger, services.Ledger, services.Calendar)
	registerCalendarRoutes(ledger, services.Calendar)
	registerReportingRoutes(ledger, services.Reporting)
}
