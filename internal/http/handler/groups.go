package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ldapsync/internal/service"
)

const reportURLExpiry = 15 * time.Minute

// parsePage reads limit and offset, or writes a 400 and returns false.
func parsePage(c *fiber.Ctx) (int, int, bool) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		return 0, 0, false
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		return 0, 0, false
	}
	return limit, offset, true
}

// validID returns the :id param, or writes a 400 and returns false.
func validID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}

// ListGroups godoc
//
// @Summary  List synced groups
// @Tags     groups
// @Produce  json
// @Param    limit  query int false "page size" default(10)
// @Param    offset query int false "offset"    default(0)
// @Success  200 {object} service.ListResult[model.Group]
// @Failure  400 {object} errorPayload
// @Router   /groups [get]
func ListGroups(svc service.GroupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		res, err := svc.ListGroups(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err, "group")
		}
		return c.JSON(res)
	}
}

// GetGroup godoc
//
// @Summary  Get a synced group
// @Tags     groups
// @Produce  json
// @Param    id path string true "group id"
// @Success  200 {object} model.Group
// @Failure  400,404 {object} errorPayload
// @Router   /groups/{id} [get]
func GetGroup(svc service.GroupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		g, err := svc.GetGroup(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "group")
		}
		return c.JSON(g)
	}
}

// ListGroupMembers godoc
//
// @Summary  List the users of a synced group
// @Tags     groups
// @Produce  json
// @Param    id path string true "group id"
// @Success  200 {array} model.User
// @Failure  400,404 {object} errorPayload
// @Router   /groups/{id}/members [get]
func ListGroupMembers(svc service.GroupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		users, err := svc.ListMembers(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "group")
		}
		return c.JSON(fiber.Map{"data": users, "total": len(users)})
	}
}

// syncBody is the payload of POST /groups/sync. A nil Recursive falls back
// to the configured default.
type syncBody struct {
	Groups    []string `json:"groups"`
	Recursive *bool    `json:"recursive"`
	DryRun    bool     `json:"dry_run"`
}

type syncResponse struct {
	Data   []*service.SyncResult `json:"data"`
	Failed int                   `json:"failed"`
}

// SyncGroups godoc
//
// @Summary  Reconcile directory groups into the record store
// @Description  A single group answers with its result or an error. Several
// @Description  groups are synced in order; the response is 207 when some failed.
// @Tags     sync
// @Accept   json
// @Produce  json
// @Param    body body syncBody true "groups to sync"
// @Success  200 {object} syncResponse
// @Success  207 {object} syncResponse
// @Failure  400,404,409 {object} errorPayload
// @Router   /groups/sync [post]
func SyncGroups(svc service.SyncService, defaultRecursive bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body syncBody
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		recursive := defaultRecursive
		if body.Recursive != nil {
			recursive = *body.Recursive
		}
		reqs := make([]service.SyncRequest, 0, len(body.Groups))
		for _, g := range body.Groups {
			if g = strings.TrimSpace(g); g != "" {
				reqs = append(reqs, service.SyncRequest{Group: g, Recursive: recursive, DryRun: body.DryRun})
			}
		}
		if len(reqs) == 0 {
			return writeError(c, fiber.StatusBadRequest, "GROUP_REQUIRED", "at least one group is required")
		}

		if len(reqs) == 1 {
			res, err := svc.Sync(c.UserContext(), reqs[0])
			if err != nil {
				return writeServiceError(c, err, "group")
			}
			return c.JSON(syncResponse{Data: []*service.SyncResult{res}})
		}

		results, err := svc.SyncAll(c.UserContext(), reqs)
		out := syncResponse{Data: results}
		for _, r := range results {
			if r.Error != "" {
				out.Failed++
			}
		}
		if err != nil {
			return c.Status(fiber.StatusMultiStatus).JSON(out)
		}
		return c.JSON(out)
	}
}

// ListRuns godoc
//
// @Summary  List sync runs, newest first
// @Tags     sync
// @Produce  json
// @Param    limit  query int false "page size" default(10)
// @Param    offset query int false "offset"    default(0)
// @Success  200 {object} service.ListResult[model.SyncRun]
// @Router   /sync/runs [get]
func ListRuns(svc service.GroupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := parsePage(c)
		if !ok {
			return nil
		}
		res, err := svc.ListRuns(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err, "run")
		}
		return c.JSON(res)
	}
}

// GetRun godoc
//
// @Summary  Get a sync run
// @Tags     sync
// @Produce  json
// @Param    id path string true "run id"
// @Success  200 {object} model.SyncRun
// @Failure  400,404 {object} errorPayload
// @Router   /sync/runs/{id} [get]
func GetRun(svc service.GroupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		run, err := svc.GetRun(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, "run")
		}
		return c.JSON(run)
	}
}

// GetRunReport godoc
//
// @Summary  Redirect to the archived report of a sync run
// @Tags     sync
// @Param    id path string true "run id"
// @Success  302
// @Failure  400,404,501 {object} errorPayload
// @Router   /sync/runs/{id}/report [get]
func GetRunReport(svc service.GroupService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validID(c)
		if !ok {
			return nil
		}
		u, err := svc.ReportURL(c.UserContext(), id, reportURLExpiry)
		if err != nil {
			return writeServiceError(c, err, "report")
		}
		return c.Redirect(u, fiber.StatusFound)
	}
}
