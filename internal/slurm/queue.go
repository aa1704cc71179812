package slurm

import (
	"github.com/ycrc/Orwell-CLI/internal/queue"
)

// SacctQueueArgs reports one line per running, pending, or requeued job with
// the resource-request fields the queue summary needs.
var SacctQueueArgs = []string{
	"sacct", "-XaPsR,PD,RQ",
	"-oUser,Account,State,Partition,ReqCPUS,ReqNodes,ReqMem,ReqGRES",
}

// ParseJobRequests decodes the queue-summary sacct output.
func ParseJobRequests(lines []string) ([]queue.JobRequest, error) {
	var requests []queue.JobRequest
	err := table(lines, func(rec map[string]string) error {
		requests = append(requests, queue.JobRequest{
			User:      rec["User"],
			Account:   rec["Account"],
			State:     rec["State"],
			Partition: rec["Partition"],
			ReqCPUs:   rec["ReqCPUS"],
			ReqNodes:  rec["ReqNodes"],
			ReqMem:    rec["ReqMem"],
			ReqGRES:   rec["ReqGRES"],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}
