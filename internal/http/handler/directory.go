package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"ldapsync/internal/fiscal"
	"ldapsync/internal/service"
)

// ResolveMembers godoc
//
// @Summary  Resolve a group's membership in the directory
// @Description  Read-only: nothing is written to the record store.
// @Tags     directory
// @Produce  json
// @Param    group     query string true  "group name or DN"
// @Param    recursive query bool   false "follow nested groups"
// @Success  200 {object} resolver.Resolution
// @Failure  400,404 {object} errorPayload
// @Router   /directory/members [get]
func ResolveMembers(svc service.SyncService, defaultRecursive bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		group := c.Query("group")
		if group == "" {
			return writeError(c, fiber.StatusBadRequest, "GROUP_REQUIRED", "group is required")
		}
		recursive := defaultRecursive
		if v := c.Query("recursive"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_RECURSIVE", "recursive must be a boolean")
			}
			recursive = b
		}

		res, err := svc.Resolve(c.UserContext(), group, recursive)
		if err != nil {
			return writeServiceError(c, err, "group")
		}
		return c.JSON(res)
	}
}

// DescribeFiscal godoc
//
// @Summary  Place a date on the fiscal calendar
// @Tags     fiscal
// @Produce  json
// @Param    date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} fiscal.Description
// @Failure  400 {object} errorPayload
// @Router   /fiscal [get]
func DescribeFiscal(cal *fiscal.Calendar, now func() time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		at := now()
		if v := c.Query("date"); v != "" {
			t, err := time.ParseInLocation(time.DateOnly, v, cal.Location())
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			}
			at = t
		}
		return c.JSON(cal.Describe(at))
	}
}
