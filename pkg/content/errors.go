package content

import "errors"

var ErrRenderFailed = errors.New("content: failed to render markdown")
