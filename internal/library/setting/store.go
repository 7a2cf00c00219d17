// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package setting

import "context"

// Repository defines the data access contract for settings.
type Repository interface {

	/*
		All returns every stored setting as a map.

		Returns:
		  - map[string]string: Never nil
		  - error: Database retrieval failures
	*/
	All(context context.Context) (map[string]string, error)

	/*
		Set inserts the key or overwrites its value.

		Parameters:
		  - context: context.Context
		  - key: string
		  - value: string

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, key, value string) error
}
