package health

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// BinaryCheck verifies that the companion command can be found. Names with a
// path separator are checked as files; bare names are looked up in PATH.
//
//	status := health.BinaryCheck("java")
//	if status.IsUnhealthy() {
//	    log.Fatal("the path planner needs a JVM")
//	}
func BinaryCheck(name string) Status {
	if name == "" {
		return unhealthy("binary name cannot be empty", nil)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return unhealthy(
			fmt.Sprintf("binary '%s' not found", name),
			map[string]any{
				"binary": name,
				"error":  err.Error(),
			},
		)
	}

	return healthy(fmt.Sprintf("binary '%s' found at %s", name, path))
}

// FileCheck verifies that a file or directory exists at path.
func FileCheck(path string) Status {
	if path == "" {
		return unhealthy("path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return unhealthy(
				fmt.Sprintf("path '%s' does not exist", path),
				map[string]any{"path": path},
			)
		}
		return unhealthy(
			fmt.Sprintf("failed to stat path '%s'", path),
			map[string]any{"path": path, "error": err.Error()},
		)
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}
	return healthy(fmt.Sprintf("%s '%s' exists", kind, path))
}

// PipeCheck verifies that path is a named pipe. A missing pipe is degraded
// rather than unhealthy when its directory is writable, since the bridge can
// create it.
func PipeCheck(path string) Status {
	if path == "" {
		return unhealthy("pipe path cannot be empty", nil)
	}

	info, err := os.Lstat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return unhealthy(
				fmt.Sprintf("failed to stat pipe '%s'", path),
				map[string]any{"path": path, "error": err.Error()},
			)
		}
		dir := filepath.Dir(path)
		if werr := writable(dir); werr != nil {
			return unhealthy(
				fmt.Sprintf("pipe '%s' does not exist and %s is not writable", path, dir),
				map[string]any{"path": path, "error": werr.Error()},
			)
		}
		return degraded(
			fmt.Sprintf("pipe '%s' does not exist yet", path),
			map[string]any{"path": path},
		)
	}

	if info.Mode()&fs.ModeNamedPipe == 0 {
		return unhealthy(
			fmt.Sprintf("'%s' exists but is not a named pipe", path),
			map[string]any{"path": path, "mode": info.Mode().String()},
		)
	}
	return healthy(fmt.Sprintf("pipe '%s' ready", path))
}

func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".pathbridge-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// RedisCheck pings the Redis server at url.
func RedisCheck(ctx context.Context, url string) Status {
	if url == "" {
		return unhealthy("redis URL cannot be empty", nil)
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return unhealthy(
			"invalid redis URL",
			map[string]any{"url": url, "error": err.Error()},
		)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	client := redis.NewClient(opts)
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return unhealthy(
			fmt.Sprintf("redis at %s unreachable", opts.Addr),
			map[string]any{"addr": opts.Addr, "error": err.Error()},
		)
	}
	return healthy(fmt.Sprintf("redis at %s reachable", opts.Addr))
}

// Combine aggregates checks: unhealthy if any is unhealthy, otherwise
// degraded if any is degraded, otherwise healthy.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return healthy("no checks provided")
	}

	var unhealthyChecks, degradedChecks []string
	var healthyCount int

	for _, check := range checks {
		label := check.Name
		if label == "" {
			label = check.Message
		}
		if label == "" {
			label = "unnamed check"
		}
		switch check.Status {
		case StatusUnhealthy:
			unhealthyChecks = append(unhealthyChecks, label)
		case StatusDegraded:
			degradedChecks = append(degradedChecks, label)
		case StatusHealthy:
			healthyCount++
		}
	}

	if len(unhealthyChecks) > 0 {
		return unhealthy(
			fmt.Sprintf("%d check(s) failed", len(unhealthyChecks)),
			map[string]any{
				"total":         len(checks),
				"unhealthy":     len(unhealthyChecks),
				"degraded":      len(degradedChecks),
				"healthy":       healthyCount,
				"failed_checks": unhealthyChecks,
			},
		)
	}

	if len(degradedChecks) > 0 {
		return degraded(
			fmt.Sprintf("%d check(s) degraded", len(degradedChecks)),
			map[string]any{
				"total":           len(checks),
				"degraded":        len(degradedChecks),
				"healthy":         healthyCount,
				"degraded_checks": degradedChecks,
			},
		)
	}

	return healthy(fmt.Sprintf("all %d check(s) passed", len(checks)))
}
