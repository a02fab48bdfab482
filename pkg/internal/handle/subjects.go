package handle

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/coursevault/pkg/configs"
	"github.com/yeisme/coursevault/pkg/internal/types"
)

// ListSubjects 返回全部学期的科目目录.
//
//	@Summary		科目目录
//	@Tags			科目
//	@Produce		json
//	@Success		200	{object}	map[string][]configs.Subject	"学期 -> 科目列表"
//	@Router			/api/subjects [get]
func ListSubjects(c *gin.Context) {
	subjects := configs.GetConfig().Subjects

	catalog := make(map[string][]configs.Subject, configs.MaxSemester)
	for sem := configs.MinSemester; sem <= configs.MaxSemester; sem++ {
		subs := subjects.ForSemester(sem)
		if subs == nil {
			subs = []configs.Subject{}
		}
		catalog[strconv.Itoa(sem)] = subs
	}

	c.JSON(http.StatusOK, catalog)
}

// ListSubjectsBySemester 返回指定学期的科目列表.
//
//	@Summary		按学期查询科目
//	@Tags			科目
//	@Produce		json
//	@Param			semester	path		string	true	"学期（1-8）"
//	@Success		200			{array}		configs.Subject		"科目列表"
//	@Failure		400			{object}	types.ErrorResponse	"学期非法"
//	@Router			/api/subjects/{semester} [get]
func ListSubjectsBySemester(c *gin.Context) {
	sem, err := strconv.Atoi(c.Param("semester"))
	if err != nil || sem < configs.MinSemester || sem > configs.MaxSemester {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid semester"})
		return
	}

	subjects := configs.GetConfig().Subjects.ForSemester(sem)
	if subjects == nil {
		subjects = []configs.Subject{}
	}

	c.JSON(http.StatusOK, subjects)
}
