// Package frontier implements the Coordinator's single-owner frontier:
// the visited set, pending-job queue, and per-domain admission quota.
// Nothing here is safe for concurrent use from more than one goroutine —
// by design, only the Coordinator ever touches a Frontier.
package frontier

import (
	"github.com/cametumbling/distcrawler/internal/admission"
	"github.com/cametumbling/distcrawler/internal/canon"
)

// Job is a unit of work dispatched to exactly one worker.
type Job struct {
	URL   string
	Depth int
}

// Frontier tracks the BFS work queue and global dedup/quota state. The
// zero value is not usable; construct with New.
type Frontier struct {
	visited      map[string]struct{}
	queue        []Job
	domainCounts map[string]int
	maxPerDomain int
	filter       *admission.Filter
}

// New creates an empty Frontier. maxPerDomain is the domain quota
// (max_urls_per_domain); filter is consulted by TryAdmit for discovered
// links (seeds bypass the filter, matching §4.7's Seed semantics).
func New(maxPerDomain int, filter *admission.Filter) *Frontier {
	return &Frontier{
		visited:      make(map[string]struct{}),
		domainCounts: make(map[string]int),
		maxPerDomain: maxPerDomain,
		filter:       filter,
	}
}

// Seed admits each of urls unconditionally (subject only to the global
// visited check), at depth 0. Order of urls is preserved in the queue.
func (f *Frontier) Seed(urls []string) {
	for _, u := range urls {
		if _, seen := f.visited[u]; seen {
			continue
		}
		f.visited[u] = struct{}{}
		domain := canon.Domain(u)
		f.domainCounts[domain]++
		f.queue = append(f.queue, Job{URL: u, Depth: 0})
	}
}

// TryAdmit admits url at depth if it has not been visited, the domain
// quota is not exhausted, and the Admission Filter accepts it. Returns
// true if the URL was enqueued.
func (f *Frontier) TryAdmit(url string, depth int) bool {
	if _, seen := f.visited[url]; seen {
		return false
	}
	domain := canon.Domain(url)
	if f.domainCounts[domain] >= f.maxPerDomain {
		return false
	}
	if f.filter != nil && !f.filter.IsAllowed(url) {
		return false
	}

	f.visited[url] = struct{}{}
	f.domainCounts[domain]++
	f.queue = append(f.queue, Job{URL: url, Depth: depth})
	return true
}

// Next pops the oldest pending Job. The second return is false if the
// queue was empty.
func (f *Frontier) Next() (Job, bool) {
	if len(f.queue) == 0 {
		return Job{}, false
	}
	job := f.queue[0]
	f.queue = f.queue[1:]
	return job, true
}

// Empty reports whether the queue currently holds no pending jobs.
func (f *Frontier) Empty() bool {
	return len(f.queue) == 0
}

// DomainCount exposes the current admitted count for domain, for tests
// and diagnostics.
func (f *Frontier) DomainCount(domain string) int {
	return f.domainCounts[domain]
}

// VisitedCount exposes the total number of URLs ever admitted.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}
