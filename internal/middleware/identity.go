package middleware

// identity.go provides helpers for reading the authenticated identity that
// JWTAuth stored in the Echo context. Editor handlers need both the user id
// (for write attribution and last-writer-wins ordering) and the display
// name (for presence and chat).

import (
    "github.com/labstack/echo/v4"
)

// Actor returns the authenticated user's id and display name. The id falls
// back to "guest" and the name to the id when the respective claim is
// missing, so collaboration envelopes always carry a usable identity.
func Actor(c echo.Context) (id, name string) {
    id = "guest"
    if v, ok := c.Get("user_id").(string); ok && v != "" {
        id = v
    }
    name = id
    if v, ok := c.Get("user_name").(string); ok && v != "" {
        name = v
    }
    return id, name
}
