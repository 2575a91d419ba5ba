package uid

import (
	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
	"sync"
)

const defaultNode int64 = 1

var (
	node *snowflake.Node
	mu   sync.Mutex
)

// Init configures the snowflake node used by Generate. Only the first
// successful call has effect.
func Init(machineID int64) error {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return nil
	}

	n, err := snowflake.NewNode(machineID)
	if err != nil {
		return err
	}
	node = n
	return nil
}

func Generate() int64 {
	mu.Lock()
	n := node
	mu.Unlock()

	if n == nil {
		log.Warnf("uid package not initialized, using node %d", defaultNode)
		if err := Init(defaultNode); err != nil {
			log.Fatalf("failed to initialize snowflake node: %v", err)
		}
		return Generate()
	}
	return n.Generate().Int64()
}
