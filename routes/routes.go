package routes

import (
	"conference-review-api/controllers"
	"conference-review-api/middleware"
	"conference-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Conference Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications
			protected.GET("/notifications", controllers.GetMyNotifications)
			protected.PUT("/notifications/:id/read", controllers.MarkNotificationRead)

			// Conferences
			conferences := protected.Group("/conferences")
			{
				conferences.GET("", controllers.GetConferences)
				conferences.GET("/:id", controllers.GetConference)
				conferences.POST("", middleware.RequireRole(models.RoleIDAdmin), controllers.CreateConference)

				// Membership (chair/admin checks inside)
				conferences.POST("/:id/members", controllers.AddConferenceMember)
				conferences.GET("/:id/members", controllers.GetConferenceMembers)

				// Papers and worklists per conference
				conferences.GET("/:id/papers", controllers.GetConferencePapers)
				conferences.GET("/:id/bids/mine", controllers.GetMyConferenceBids)
				conferences.GET("/:id/assignments/mine", controllers.GetMyAssignments)

				// Reviewer allocation
				conferences.POST("/:id/auto-assign", controllers.AutoAssign)
			}

			// Papers
			papers := protected.Group("/papers")
			{
				papers.POST("", controllers.CreatePaper)
				papers.GET("/:id", controllers.GetPaper)
				papers.DELETE("/:id", controllers.DeletePaper)

				// Files
				papers.POST("/:id/files", controllers.UploadPaperFile)
				papers.GET("/:id/files", controllers.GetPaperFiles)
				papers.POST("/:id/files/:fileId/approve", controllers.ApproveCameraReady)

				// Bidding
				papers.POST("/:id/bids", controllers.SubmitBid)
				papers.GET("/:id/bids/mine", controllers.GetMyBid)
				papers.GET("/:id/bids", controllers.GetPaperBids)

				// Conflicts of interest
				papers.POST("/:id/conflicts", controllers.DeclareConflict)
				papers.DELETE("/:id/conflicts/:userId", controllers.RetractConflict)

				// Manual assignment
				papers.POST("/:id/assignments", controllers.AssignReviewer)
				papers.GET("/:id/assignments", controllers.GetPaperAssignments)

				// Decisions
				papers.POST("/:id/decision", controllers.MakeDecision)
				papers.GET("/:id/decision", controllers.GetPaperDecisionInfo)
			}

			// Review assignments
			assignments := protected.Group("/assignments")
			{
				assignments.DELETE("/:id", controllers.UnassignReviewer)
				assignments.PUT("/:id/review", controllers.SaveReviewDraft)
				assignments.POST("/:id/review/submit", controllers.SubmitReview)
				assignments.GET("/:id/review", controllers.GetReview)
			}
		}
	}
}
