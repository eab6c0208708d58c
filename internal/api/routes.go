package api

import (
	"net/http"

	"fitbro/gym-app/internal/domain"
	"fitbro/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler into the gin router. Everything under
// /api/v1 except /auth requires a valid bearer token; member and cycle
// management is open to both roles, deletes are admin-only.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	defaultCycleDays int,
	authService service.AuthService,
	memberService service.MemberService,
	cycleService service.CycleService,
	planService service.PlanService,
) {
	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(memberService)
	cycleHandler := NewCycleHandler(cycleService, defaultCycleDays)
	planHandler := NewPlanHandler(planService)

	authMiddleware := AuthMiddleware(jwtSecret)
	anyStaff := RoleMiddleware(domain.RoleAdmin, domain.RoleStaff)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			tenant, err := getTenantFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get tenant from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"userId": tenant.UserID.Hex(),
				"gymId":  tenant.GymID.Hex(),
				"role":   tenant.Role,
			})
		})

		// --- Member Routes ---
		memberGroup := protected.Group("/members")
		memberGroup.Use(anyStaff)
		{
			memberGroup.POST("", memberHandler.CreateMember)
			memberGroup.GET("", memberHandler.ListMembers)
			memberGroup.GET("/:id", memberHandler.GetMember)
			memberGroup.PUT("/:id", memberHandler.UpdateMember)

			memberGroup.GET("/:id/photo/upload-url", memberHandler.RequestPhotoUploadURL)
			memberGroup.POST("/:id/photo/confirm", memberHandler.ConfirmPhotoUpload)
			memberGroup.GET("/:id/photo/download-url", memberHandler.GetPhotoDownloadURL)

			// Cycle sequence lives under the member that owns it.
			// gin requires the same param name as the routes above.
			memberGroup.GET("/:id/cycles", cycleHandler.GetMemberCycles)
			memberGroup.POST("/:id/cycles", cycleHandler.AddCycle)
			memberGroup.POST("/:id/cycles/generate", cycleHandler.GenerateCycles)
		}

		// --- Cycle Routes (addressed by cycle id) ---
		cycleGroup := protected.Group("/cycles")
		cycleGroup.Use(anyStaff)
		{
			cycleGroup.PUT("/:id/duration", cycleHandler.EditCycleDuration)
			cycleGroup.PUT("/:id/delete", RoleMiddleware(domain.RoleAdmin), cycleHandler.SoftDeleteCycle)
			cycleGroup.GET("/:id/entries", planHandler.ListEntries)
		}

		// --- Plan Entry and Swap Routes ---
		protected.POST("/plan-entries", anyStaff, planHandler.CreateEntry)
		protected.POST("/swap-workout-day", anyStaff, planHandler.SwapWorkoutDay)
		protected.POST("/entries/:id/swap-to-today", anyStaff, planHandler.SwapEntryToToday)

		// --- Workout Log Routes ---
		protected.POST("/workout-logs", anyStaff, planHandler.CreateLog)
		protected.PUT("/workout-logs/:id", anyStaff, planHandler.UpdateLog)
	}
}
