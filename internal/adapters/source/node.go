package source

import (
	"context"

	"github.com/grindlemire/graft"
)

// DiskNodeID is the unique identifier for the disk fetcher Graft node.
const DiskNodeID graft.ID = "adapter.source.disk"

func init() {
	graft.Register(graft.Node[*Disk]{
		ID:        DiskNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Disk, error) {
			return NewDisk(), nil
		},
	})
}
