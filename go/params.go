package boardserver

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// parseIDParam binds an integer path parameter and answers 400 when it is
// malformed.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return 0, false
	}
	return id, true
}
