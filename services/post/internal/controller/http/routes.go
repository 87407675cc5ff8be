package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, h *PostHandler) {
	posts := r.Group("/posts")
	{
		posts.GET("", h.ListPosts)
		posts.POST("", h.CreatePost)
		posts.GET("/status/:status", h.ListPostsByStatus)
		posts.GET("/:id", h.GetPost)
		posts.PUT("/:id", h.UpdatePost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/image", h.UploadImage)
		posts.PUT("/:id/toggle", h.TogglePostStatus)
	}
}
