package httpt

func (h *PhonebookHandler) setupRoutes() {
	h.router.GET("/", h.welcomeHandler)
	h.router.GET("/health", h.healthHandler)

	v := h.router.Group("/" + h.apiVersion)
	{
		v.POST("/address/:phone", h.createAddressHandler)
		v.GET("/address/:phone", h.getAddressHandler)
		v.PUT("/address/:phone", h.updateAddressHandler)
		v.DELETE("/address/:phone", h.deleteAddressHandler)
	}
}
