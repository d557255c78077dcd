package scheduler

import "go.trai.ch/assetpack/internal/core/domain"

// GetStatusMap returns a copy of the internal package status map.
// This is exported for testing purposes only.
func (s *Scheduler) GetStatusMap() map[string]domain.BuildStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[string]domain.BuildStatus, len(s.status))
	for k, v := range s.status {
		statusMap[k] = v
	}
	return statusMap
}
