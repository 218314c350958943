package catalog

import "github.com/bloomkart/storefront-backend/pkg/pagination"

func paginationParams(limit int, cursor string) pagination.Params {
	return pagination.Params{Limit: limit, Cursor: cursor}
}
