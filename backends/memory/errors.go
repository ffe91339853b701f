package memory

import "errors"

// ErrInvalidConfig is returned by the registered factory for configs that are
// neither nil nor a memory.Config.
var ErrInvalidConfig = errors.New("memory backend requires memory.Config")
