package app

import (
	"github.com/vk/tensorgridgo/backends/emulator"
	"github.com/vk/tensorgridgo/internal/registry"
)

// coreModules is the definitive list of all backend modules that are
// compiled into the tensorgridgo binary.
var coreModules = []registry.Module{
	&emulator.Module{},
}
