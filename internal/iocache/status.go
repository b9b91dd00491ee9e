package iocache

import (
	"fmt"

	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// PrintChurnStatus prints churn cache status information.
func PrintChurnStatus(status schema.CacheStatus) {
	fmt.Printf("Churn Cache Backend: %s\n", status.Backend)
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
	fmt.Printf("Total Entries: %d\n", status.EntryCount)
	if status.EntryCount > 0 {
		fmt.Printf("Newest Entry: %s\n", status.NewestItem.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", status.OldestItem.Format("2006-01-02 15:04:05"))
	}
	if status.SizeBytes > 0 {
		fmt.Printf("Size: %d bytes\n", status.SizeBytes)
	}
}

// PrintSnapshotStatus prints snapshot store status plus the stored snapshots.
func PrintSnapshotStatus(status schema.CacheStatus, metas []schema.SnapshotMeta) {
	fmt.Printf("Snapshot Backend: %s\n", status.Backend)
	if status.Location != "" {
		fmt.Printf("Location: %s\n", status.Location)
	}
	fmt.Printf("Stored Snapshots: %d\n", status.EntryCount)
	for _, meta := range metas {
		fmt.Printf("  %s  %s  %d functions\n",
			shortSHA(meta.CommitSHA),
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.FunctionCount)
	}
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
