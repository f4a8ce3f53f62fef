package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	errs "github.com/techagentng/wefixsa/errors"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/server/response"
	"github.com/techagentng/wefixsa/services"
)

const dashboardRecentLimit = 5

var errReportNotFound = errs.New("report not found", http.StatusNotFound)

func (s *Server) handleCreateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromContext(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var input models.ReportInput
		if err := decode(c, &input); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		input.SubmittedBy = user.Username

		report, err := s.ReportService.CreateReport(c.Request.Context(), &input)
		if err != nil {
			zap.S().Errorw("error creating report", "username", user.Username, "error", err)
			response.JSON(c, "failed to submit report", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "report submitted successfully", http.StatusCreated, report, nil)
	}
}

func (s *Server) handleGetMyReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username")
		reports := reverse(s.ReportService.GetReportsByUser(c.Request.Context(), username))
		response.JSON(c, "reports retrieved successfully", http.StatusOK, reports, nil)
	}
}

// handleGetReport lets citizens read only their own reports; admins read any
func (s *Server) handleGetReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromContext(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		report, found := s.ReportService.GetReportByID(c.Request.Context(), c.Param("id"))
		if !found || (!user.IsAdmin() && report.SubmittedBy != user.Username) {
			response.JSON(c, "", http.StatusNotFound, nil, errReportNotFound)
			return
		}
		response.JSON(c, "report retrieved successfully", http.StatusOK, report, nil)
	}
}

func (s *Server) handleListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ReportFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		reports := s.ReportService.FilterReports(c.Request.Context(), filter)
		if c.Query("order") == "recent" {
			reports = reverse(reports)
		}
		response.JSON(c, "reports retrieved successfully", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleGetReportsByStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Param("status")
		if _, ok := models.ParseStatus(status); !ok {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(services.ErrInvalidStatus.Error(), http.StatusBadRequest))
			return
		}
		reports := s.ReportService.GetReportsByStatus(c.Request.Context(), status)
		response.JSON(c, "reports retrieved successfully", http.StatusOK, reports, nil)
	}
}

func (s *Server) handleUpdateReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.UpdateReportRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}
		patch, ok := request.ToPatch()
		if !ok {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(services.ErrInvalidStatus.Error(), http.StatusBadRequest))
			return
		}

		report, found, err := s.ReportService.UpdateReport(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			zap.S().Errorw("error updating report", "id", c.Param("id"), "error", err)
			response.JSON(c, "failed to update report", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if !found {
			response.JSON(c, "", http.StatusNotFound, nil, errReportNotFound)
			return
		}
		response.JSON(c, "report updated successfully", http.StatusOK, report, nil)
	}
}

func (s *Server) handleDeleteReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := s.ReportService.DeleteReport(c.Request.Context(), c.Param("id"))
		if err != nil {
			zap.S().Errorw("error deleting report", "id", c.Param("id"), "error", err)
			response.JSON(c, "failed to delete report", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if !deleted {
			response.JSON(c, "", http.StatusNotFound, nil, errReportNotFound)
			return
		}
		response.JSON(c, "report deleted successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleCitizenDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetString("username")
		ctx := c.Request.Context()

		recent := reverse(s.ReportService.GetReportsByUser(ctx, username))
		if len(recent) > dashboardRecentLimit {
			recent = recent[:dashboardRecentLimit]
		}
		response.JSON(c, "dashboard retrieved successfully", http.StatusOK, gin.H{
			"counts": s.ReportService.StatusCounts(ctx, username),
			"recent": recent,
		}, nil)
	}
}

func (s *Server) handleAdminDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		citizens, err := s.AuthService.GetCitizens(ctx)
		if err != nil {
			zap.S().Errorw("error reading citizens", "error", err)
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "dashboard retrieved successfully", http.StatusOK, gin.H{
			"counts":   s.ReportService.StatusCounts(ctx, ""),
			"recent":   s.ReportService.RecentReports(ctx, dashboardRecentLimit),
			"citizens": len(citizens),
		}, nil)
	}
}

// reverse returns reports newest first; the slice is already a copy
func reverse(reports []models.Report) []models.Report {
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	return reports
}
