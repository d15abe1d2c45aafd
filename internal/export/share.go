package export

import (
	"fmt"
	"strings"
)

// ShareURL строит публичную ссылку на генерацию. Hash-режим повторяет
// роутер клиента (<origin>/#/shared/<id>), path-режим дает прямой путь.
func ShareURL(origin, id string, hashMode bool) string {
	origin = strings.TrimRight(origin, "/")
	if hashMode {
		return fmt.Sprintf("%s/#/shared/%s", origin, id)
	}
	return fmt.Sprintf("%s/shared/%s", origin, id)
}
