package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cleanblog/internal/db"
	"github.com/cleanblog/internal/service"
	"github.com/gin-gonic/gin"
)

// ShowHome renders every post, oldest first.
func (a *API) ShowHome(c *gin.Context) {
	posts, err := a.posts.List(c.Request.Context())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	a.renderHTML(c, http.StatusOK, "index.html", gin.H{
		"title": "Home",
		"posts": posts,
	})
}

// ShowPost 渲染文章详情及其评论
func (a *API) ShowPost(c *gin.Context) {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		a.renderNotFound(c)
		return
	}
	a.renderPost(c, id, http.StatusOK, "")
}

func (a *API) renderPost(c *gin.Context, id uint, status int, formError string) {
	ctx := c.Request.Context()
	post, err := a.posts.Get(ctx, id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	comments, err := a.comments.ListForPost(ctx, id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	data := gin.H{
		"title":    post.Title,
		"post":     post,
		"comments": comments,
	}
	if formError != "" {
		data["error"] = formError
	}
	a.renderHTML(c, status, "post.html", data)
}

// AddComment stores a comment from the logged in user and redirects back to
// the post.
func (a *API) AddComment(c *gin.Context) {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderPost(c, id, http.StatusBadRequest, describeFormError(err))
		return
	}

	_, err = a.comments.Add(c.Request.Context(), CurrentUser(c), id, form.Comment)
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		a.addFlash(c, flashLoginToComment)
		c.Redirect(http.StatusFound, "/login")
		return
	case errors.Is(err, service.ErrValidation):
		a.renderPost(c, id, http.StatusBadRequest, describeFormError(err))
		return
	case err != nil:
		a.respondServiceError(c, err)
		return
	}

	c.Redirect(http.StatusFound, postPath(id))
}

// ShowNewPost renders an empty editor.
func (a *API) ShowNewPost(c *gin.Context) {
	a.renderEditor(c, http.StatusOK, "/new_post", false, postForm{}, "")
}

// CreatePost publishes a new post for the administrator.
func (a *API) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderEditor(c, http.StatusBadRequest, "/new_post", false, form, describeFormError(err))
		return
	}

	_, err := a.posts.Create(c.Request.Context(), CurrentUser(c), form.input())
	if errors.Is(err, service.ErrValidation) {
		a.renderEditor(c, http.StatusBadRequest, "/new_post", false, form, describeFormError(err))
		return
	}
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ShowEditPost renders the editor prefilled with the stored post.
func (a *API) ShowEditPost(c *gin.Context) {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Get(c.Request.Context(), id)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	a.renderEditor(c, http.StatusOK, editPath(id), true, formFromPost(post), "")
}

// UpdatePost 保存编辑后的文章，成功后跳转到文章页
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		a.renderEditor(c, http.StatusBadRequest, editPath(id), true, form, describeFormError(err))
		return
	}

	_, err = a.posts.Update(c.Request.Context(), CurrentUser(c), id, form.input())
	if errors.Is(err, service.ErrValidation) {
		a.renderEditor(c, http.StatusBadRequest, editPath(id), true, form, describeFormError(err))
		return
	}
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postPath(id))
}

// DeletePost removes a post with its comments.
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "post_id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	if err := a.posts.Delete(c.Request.Context(), CurrentUser(c), id); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (a *API) renderEditor(c *gin.Context, status int, action string, isEdit bool, form postForm, formError string) {
	title := "New Post"
	if isEdit {
		title = "Edit Post"
	}
	data := gin.H{
		"title":  title,
		"action": action,
		"isEdit": isEdit,
		"form":   form,
	}
	if formError != "" {
		data["error"] = formError
	}
	a.renderHTML(c, status, "make-post.html", data)
}

func formFromPost(post *db.Post) postForm {
	return postForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
}

func postPath(id uint) string {
	return "/post/" + strconv.FormatUint(uint64(id), 10)
}

func editPath(id uint) string {
	return "/edit-post/" + strconv.FormatUint(uint64(id), 10)
}
