package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type AssetReader interface {
	ReadAsset(ctx context.Context, filename string) ([]byte, error)
}

func AssetsRouter(router fiber.Router, assets AssetReader) {
	router.Get("/:filename", func(c *fiber.Ctx) error {
		data, err := assets.ReadAsset(c.UserContext(), c.Params("filename"))
		if err != nil {
			return sendError(c, err)
		}

		c.Type("json", "utf-8")
		return c.Send(data)
	})
}
