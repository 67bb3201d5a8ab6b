package account

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

func jsonEncode(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

func pathSuffix(path, suffix string) bool {
	return suffix != "" && strings.HasSuffix(path, suffix)
}

// pathOrderID pulls the numeric segment out of paths like
// /api/orders/7/status (suffix "/status") or /api/orders/7 (suffix "").
func pathOrderID(path, suffix string) int64 {
	trimmed := strings.TrimSuffix(path, suffix)
	idx := strings.LastIndex(trimmed, "/")
	id, _ := strconv.ParseInt(trimmed[idx+1:], 10, 64)
	return id
}
