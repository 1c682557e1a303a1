package blogservice

import (
	"github.com/sushihentaime/bloglist/internal/common"
)

func validateCreateBlog(v *common.Validator, req *CreateBlogRequest) {
	v.CheckStruct(req)
	v.Check(req.Owner != nil && !req.Owner.ID.IsZero(), "user", "missing user")
}

// validateUpdateBlog rejects fields that are present but blank. Absent fields
// are left untouched by the update.
func validateUpdateBlog(v *common.Validator, req *UpdateBlogRequest) {
	if req.Title != nil {
		v.Check(*req.Title != "", "title", "missing title")
	}

	if req.Author != nil {
		v.Check(*req.Author != "", "author", "missing author")
	}
}
