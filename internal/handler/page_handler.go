package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/cleanblog/internal/service"
	"github.com/cleanblog/internal/view"
	"github.com/gin-gonic/gin"
)

const contactFailedMessage = "Sorry, your message could not be sent right now. Please try again later."

// ShowAbout renders the about page from its markdown source.
func (a *API) ShowAbout(c *gin.Context) {
	source, err := a.about()
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	content, err := view.RenderMarkdown(source)
	if err != nil {
		a.logger(c).WithError(err).Warn("failed to render about page")
		content = template.HTML("<p>This page is temporarily unavailable.</p>")
	}

	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title":   "About",
		"content": content,
	})
}

// ShowContact 渲染联系表单
func (a *API) ShowContact(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "contact.html", gin.H{
		"title":       "Contact",
		"messageSent": false,
	})
}

// SendContact relays the form to the blog owner by mail.
func (a *API) SendContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderContact(c, http.StatusBadRequest, form, describeFormError(err))
		return
	}

	err := a.contact.Send(c.Request.Context(), form.message())
	switch {
	case errors.Is(err, service.ErrValidation):
		a.renderContact(c, http.StatusBadRequest, form, describeFormError(err))
		return
	case errors.Is(err, service.ErrDeliveryFailed):
		a.renderContact(c, http.StatusBadGateway, form, contactFailedMessage)
		return
	case err != nil:
		a.respondServiceError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "contact.html", gin.H{
		"title":       "Contact",
		"messageSent": true,
	})
}

func (a *API) renderContact(c *gin.Context, status int, form contactForm, formError string) {
	a.renderHTML(c, status, "contact.html", gin.H{
		"title":       "Contact",
		"messageSent": false,
		"form":        form,
		"error":       formError,
	})
}
