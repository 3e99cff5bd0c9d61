package sampler

import (
	"os/user"
	"strconv"
)

// lookupUser resolves a uid to a login name, falling back to the number.
func lookupUser(uid uint32) string {
	id := strconv.FormatUint(uint64(uid), 10)
	if u, err := user.LookupId(id); err == nil {
		return u.Username
	}
	return id
}
