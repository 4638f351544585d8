package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/marquee"
	"github.com/lborres/marquee/core"
	"github.com/lborres/marquee/services"
)

type createAccountInput struct {
	Identity string `json:"identity"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func handleCreateAccount(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input createAccountInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		result, err := m.Accounts.Create(c.Context(), input.Identity, input.Email, input.Password)
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(result)
	}
}

type loginInput struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

func handleLogin(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input loginInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		account, token, err := m.Sessions.Login(c.Context(), input.Identity, input.Password)
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(http.StatusOK).JSON(fiber.Map{
			"account": account,
			"token":   token,
		})
	}
}

func handleLogout(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": marquee.ErrInvalidToken.Error(),
			})
		}

		if err := m.Sessions.Logout(c.Context(), token); err != nil {
			return respondError(c, err)
		}

		return c.SendStatus(http.StatusNoContent)
	}
}

func handleMe(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(accountFromCtx(c))
	}
}

type updateAccountInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func handleUpdateMe(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input updateAccountInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		account, err := m.Accounts.Update(c.Context(), accountFromCtx(c).ID, services.UpdateAccountInput{
			Email:    input.Email,
			Password: input.Password,
		})
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(http.StatusOK).JSON(account)
	}
}

func handleListWatchlist(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		entries, err := m.Watchlist.ListWanted(c.Context(), accountFromCtx(c).ID)
		if err != nil {
			return respondError(c, err)
		}
		if entries == nil {
			entries = []marquee.WatchlistEntry{}
		}
		return c.Status(http.StatusOK).JSON(entries)
	}
}

type setWantedInput struct {
	Wanted bool `json:"wanted"`
}

func handleSetWanted(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input setWantedInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		entry, created, err := m.Watchlist.SetWanted(c.Context(), accountFromCtx(c).ID, c.Params("movieID"), input.Wanted)
		if err != nil {
			return respondError(c, err)
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return c.Status(status).JSON(entry)
	}
}

func handleListComments(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		comments, err := m.Comments.List(c.Context(), c.Params("movieID"))
		if err != nil {
			return respondError(c, err)
		}
		if comments == nil {
			comments = []marquee.Comment{}
		}
		return c.Status(http.StatusOK).JSON(comments)
	}
}

type addCommentInput struct {
	Body        string `json:"body"`
	DisplayName string `json:"displayName"`
}

func handleAddComment(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		var input addCommentInput
		if err := c.Bind().Body(&input); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		account := accountFromCtx(c)
		displayName := input.DisplayName
		if displayName == "" {
			displayName = account.Identity
		}

		comment, err := m.Comments.Add(c.Context(), c.Params("movieID"), account.ID, displayName, input.Body)
		if err != nil {
			return respondError(c, err)
		}

		return c.Status(http.StatusCreated).JSON(comment)
	}
}

func handleRemoveComment(m *marquee.Marquee) fiber.Handler {
	return func(c fiber.Ctx) error {
		err := m.Comments.Remove(c.Context(), c.Params("movieID"), accountFromCtx(c).ID, c.Params("commentID"))
		if err != nil && !errors.Is(err, marquee.ErrNotFound) {
			// A miss is reported as a no-op success at this layer.
			return respondError(c, err)
		}

		return c.SendStatus(http.StatusNoContent)
	}
}

// respondError maps core error kinds to HTTP responses. Server-side
// failures get a generic body so store internals never leak.
func respondError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "service unavailable"
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func mapErrorToStatus(err error) int {
	var (
		validationErr *core.ValidationError
		duplicateErr  *core.DuplicateError
		storeErr      *core.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest

	case errors.As(err, &duplicateErr):
		return http.StatusConflict

	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrInvalidToken):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound

	case errors.As(err, &storeErr):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
