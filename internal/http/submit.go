package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/guaraci/paylink-gateway/internal/logger"
	"github.com/guaraci/paylink-gateway/internal/mail"
	"github.com/guaraci/paylink-gateway/internal/metrics"
	"github.com/guaraci/paylink-gateway/internal/model"
	"github.com/guaraci/paylink-gateway/internal/submission"
	"github.com/guaraci/paylink-gateway/internal/upload"
	"github.com/guaraci/paylink-gateway/internal/util"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

func submitPaymentHandler(d Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		form, err := c.MultipartForm()
		if err != nil {
			return reject(c, errors.New("multipart form required"))
		}

		fields := make(map[string]string, len(form.Value))
		for k, vs := range form.Value {
			if len(vs) > 0 {
				fields[k] = vs[0]
			}
		}

		sub, err := submission.Validate(fields, fields[submission.FieldLinkID])
		if err != nil {
			return reject(c, err)
		}

		files, err := bufferFiles(form.File)
		if err != nil {
			log.Errorf("reading multipart files failed: %v", err)
			return serverError(c)
		}
		validated, err := upload.Validate(files)
		if err != nil {
			return reject(c, err)
		}
		sub.CardPhoto = validated[upload.FieldCardPhoto]
		sub.SelfieWithDocument = validated[upload.FieldSelfie]
		sub.ID = util.New()

		if d.Cfg.Links.EnforceRegistry {
			known, err := d.Registry.Exists(c.Request().Context(), sub.LinkID)
			if err != nil {
				logger.Log.Error("link registry lookup failed", zap.String("link_id", sub.LinkID), zap.Error(err))
				return serverError(c)
			}
			if !known {
				return reject(c, submission.ErrInvalidLink)
			}
		}

		now := time.Now()
		customer, err := mail.ComposeCustomer(sub.Name, sub.LinkID, now)
		if err != nil {
			logger.Log.Error("compose customer notification failed", zap.String("submission_id", sub.ID), zap.Error(err))
			return serverError(c)
		}
		customer.Recipient = sub.Email

		reviewer, err := mail.ComposeReviewer(sub, now)
		if err != nil {
			logger.Log.Error("compose reviewer notification failed", zap.String("submission_id", sub.ID), zap.Error(err))
			return serverError(c)
		}
		reviewer.Recipient = d.Cfg.Mail.Reviewer

		outcome := d.Coord.Dispatch(c.Request().Context(), customer, reviewer)
		countNotification(model.RoleCustomer, outcome)
		countNotification(model.RoleReviewer, outcome)

		if !outcome.AllSucceeded {
			for role, f := range outcome.Failures {
				logger.Log.Error("notification dispatch failed",
					zap.String("submission_id", sub.ID),
					zap.String("link_id", sub.LinkID),
					zap.String("role", role),
					zap.String("recipient", f.Recipient),
					zap.Error(f.Err),
				)
			}
			metrics.SubmissionsTotal.WithLabelValues("dispatch_failed").Inc()
			return serverError(c)
		}

		// release the image buffers later; best-effort only
		d.Janitor.Schedule(d.Cfg.Cleanup.Delay, sub.Release)

		metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
		logger.Log.Info("submission accepted",
			zap.String("submission_id", sub.ID),
			zap.String("link_id", sub.LinkID),
		)

		return c.JSON(http.StatusOK, map[string]bool{"success": true})
	}
}

// bufferFiles reads every part under the two required fields into memory.
// Other fields are ignored; the arity check belongs to the upload guard.
func bufferFiles(parts map[string][]*multipart.FileHeader) (map[string][]model.UploadedFile, error) {
	out := make(map[string][]model.UploadedFile, 2)
	for _, field := range []string{upload.FieldCardPhoto, upload.FieldSelfie} {
		for _, fh := range parts[field] {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return nil, err
			}
			out[field] = append(out[field], model.UploadedFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        int64(len(data)),
				Data:        data,
			})
		}
	}
	return out, nil
}

func countNotification(role string, outcome model.DispatchOutcome) {
	status := "sent"
	if outcome.Failed(role) {
		status = "failed"
	}
	metrics.NotificationsTotal.WithLabelValues(role, status).Inc()
}

// reject answers a client-side validation failure. These are never server
// faults, so they are not logged as errors.
func reject(c echo.Context, err error) error {
	metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

// serverError hides internals behind a generic message; details were already
// logged with full context.
func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "server error"})
}
