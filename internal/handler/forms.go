package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleanblog/internal/service"
	"github.com/go-playground/validator/v10"
)

type registerForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Name     string `form:"name" binding:"required"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type commentForm struct {
	Comment string `form:"comment"`
}

type postForm struct {
	Title    string `form:"title" binding:"required"`
	Subtitle string `form:"subtitle" binding:"required"`
	ImgURL   string `form:"img_url" binding:"required,url"`
	Body     string `form:"body" binding:"required"`
}

func (f postForm) input() service.PostInput {
	return service.PostInput{
		Title:    f.Title,
		Subtitle: f.Subtitle,
		ImgURL:   f.ImgURL,
		Body:     f.Body,
	}
}

type contactForm struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone"`
	Message string `form:"message" binding:"required"`
}

func (f contactForm) message() service.ContactMessage {
	return service.ContactMessage{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Message: f.Message,
	}
}

// describeFormError turns binding and service validation errors into a
// message shown above the form.
func describeFormError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		messages := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			messages = append(messages, describeField(fe))
		}
		return strings.Join(messages, " ")
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s %s.", fieldLabel(verr.Field), verr.Message)
	}
	return "Please check the form and try again."
}

func describeField(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "email":
		return label + " must be a valid email address."
	case "url":
		return label + " must be a valid URL."
	default:
		return label + " is invalid."
	}
}

func fieldLabel(field string) string {
	switch strings.ToLower(field) {
	case "imgurl", "img_url":
		return "Image URL"
	case "comment":
		return "Comment"
	case "":
		return "Field"
	default:
		lower := strings.ToLower(field)
		return strings.ToUpper(lower[:1]) + lower[1:]
	}
}
