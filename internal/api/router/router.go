package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-screener-go/internal/api/handler"
	"resume-screener-go/internal/config"
	"resume-screener-go/internal/matching"
	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/screener"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config, screenerHandler *handler.ScreenerHandler) {
	api := h.Group("/api/v1")

	// 配置了API密钥时启用认证
	if cfg.Server.APIKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				if key == cfg.Server.APIKey {
					return true, nil
				}
				// 默认错误处理器会对返回的error取Error(), 不能返回nil
				return false, keyauth.ErrMissingOrMalformedAPIKey
			}),
		))
	}

	api.POST("/resumes/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "文件未找到"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"success": false, "error": "打开文件失败"})
			return
		}
		defer file.Close()

		result, err := screenerHandler.HandleResumeUpload(c, file, fileHeader.Filename)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "result": result})
	})

	api.POST("/resumes/text", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			Text string `json:"text"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		result, err := screenerHandler.HandleResumeText(c, req.Text)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "result": result})
	})

	api.GET("/resumes", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "resumes": screenerHandler.HandleListResumes(c)})
	})

	api.GET("/resumes/:id", func(c context.Context, ctx *app.RequestContext) {
		details, err := screenerHandler.HandleGetResume(c, ctx.Param("id"))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "resume": details})
	})

	api.DELETE("/resumes/:id", func(c context.Context, ctx *app.RequestContext) {
		if !screenerHandler.HandleRemoveResume(c, ctx.Param("id")) {
			ctx.JSON(consts.StatusNotFound, utils.H{"success": false, "error": "简历不存在"})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true})
	})

	api.DELETE("/resumes", func(c context.Context, ctx *app.RequestContext) {
		screenerHandler.HandleClearAll(c)
		ctx.JSON(consts.StatusOK, utils.H{"success": true})
	})

	api.POST("/matches", func(c context.Context, ctx *app.RequestContext) {
		var req handler.MatchRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		results, err := screenerHandler.HandleMatch(c, req)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "matches": results, "total": len(results)})
	})

	api.POST("/matches/quality", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			JobDescription string `json:"job_description"`
			TopK           int    `json:"top_k"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		report, err := screenerHandler.HandleMatchQuality(c, req.JobDescription, req.TopK)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "report": report})
	})

	api.POST("/resumes/:id/match", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			JobDescription string `json:"job_description"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		result, err := screenerHandler.HandleMatchSingle(c, ctx.Param("id"), req.JobDescription)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "match": result})
	})

	api.POST("/resumes/:id/skill-gap", func(c context.Context, ctx *app.RequestContext) {
		var req handler.SkillGapRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		report, err := screenerHandler.HandleSkillGap(c, ctx.Param("id"), req)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "report": report})
	})

	api.GET("/resumes/:id/experience", func(c context.Context, ctx *app.RequestContext) {
		assessment, err := screenerHandler.HandleExperience(c, ctx.Param("id"))
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "assessment": assessment})
	})

	api.POST("/resumes/:id/salary", func(c context.Context, ctx *app.RequestContext) {
		var req handler.SalaryRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		estimate, err := screenerHandler.HandleSalary(c, ctx.Param("id"), req)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "estimate": estimate})
	})

	api.POST("/resumes/:id/report", func(c context.Context, ctx *app.RequestContext) {
		var req handler.ReportRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": "请求体解析失败"})
			return
		}

		report, err := screenerHandler.HandleReport(c, ctx.Param("id"), req)
		if err != nil {
			writeError(ctx, err)
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "report": report})
	})

	api.GET("/stats", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"success": true, "stats": screenerHandler.HandleStats(c)})
	})

	// 健康检查不要求认证
	h.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}

// writeError 按错误类别映射HTTP状态码
func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, matching.ErrResumeNotFound):
		ctx.JSON(consts.StatusNotFound, utils.H{"success": false, "error": "简历不存在"})
	case errors.Is(err, screener.ErrEmptyJobDescription),
		errors.Is(err, screener.ErrEmptyResumeText),
		errors.Is(err, handler.ErrInvalidTopK),
		errors.Is(err, handler.ErrJobDescriptionTooLong),
		errors.Is(err, parser.ErrFileNotExist),
		errors.Is(err, parser.ErrUnsupportedFormat),
		errors.Is(err, parser.ErrEmptyDocument):
		ctx.JSON(consts.StatusBadRequest, utils.H{"success": false, "error": err.Error()})
	default:
		ctx.JSON(consts.StatusInternalServerError, utils.H{"success": false, "error": "内部处理失败"})
	}
}
