package client

import "sync"

func ResetWarning() {
	warnOnce = sync.Once{}
}
