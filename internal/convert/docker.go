package convert

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ATenderholt/rainbow-xform/internal/domain"
	"github.com/ATenderholt/rainbow-xform/internal/settings"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
)

type ContainerAPI interface {
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.ContainerCreateCreatedBody, error)
	ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.ContainerWaitOKBody, <-chan error)
	ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error
}

// DockerRunner runs the converter image once per conversion, passing the
// locators as the container command. The container's exit status is the
// conversion's exit status.
type DockerRunner struct {
	api     ContainerAPI
	image   string
	network string
	env     []string
	timeout time.Duration
}

func NewDockerRunner(cfg *settings.Config) (*DockerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		logger.Errorf("Unable to create docker client: %v", err)
		return nil, err
	}

	return NewDockerRunnerWithAPI(cli, cfg), nil
}

func NewDockerRunnerWithAPI(api ContainerAPI, cfg *settings.Config) *DockerRunner {
	var env []string
	for _, name := range cfg.PassEnv {
		if value, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+value)
		}
	}

	return &DockerRunner{
		api:     api,
		image:   cfg.Image,
		network: cfg.Network,
		env:     env,
		timeout: cfg.Timeout,
	}
}

func (r DockerRunner) Convert(ctx context.Context, source, destination domain.Locator) error {
	runCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	config := &container.Config{
		Image: r.image,
		Cmd:   []string{source.String(), destination.String()},
		Env:   r.env,
	}

	hostConfig := &container.HostConfig{}
	if r.network != "" {
		hostConfig.NetworkMode = container.NetworkMode(r.network)
	}

	created, err := r.api.ContainerCreate(runCtx, config, hostConfig, nil, nil, "")
	if err != nil {
		return fmt.Errorf("unable to create container from %s: %w", r.image, err)
	}

	for _, warning := range created.Warnings {
		logger.Warnf("Container %s: %s", created.ID, warning)
	}

	// Removal must happen even when runCtx is gone; Force kills a container
	// still running after a timeout.
	defer func() {
		err := r.api.ContainerRemove(context.Background(), created.ID, types.ContainerRemoveOptions{Force: true})
		if err != nil {
			logger.Warnf("Unable to remove container %s: %v", created.ID, err)
		}
	}()

	err = r.api.ContainerStart(runCtx, created.ID, types.ContainerStartOptions{})
	if err != nil {
		return fmt.Errorf("unable to start container %s: %w", created.ID, err)
	}

	logger.Debugf("Started container %s for %s", created.ID, source)

	statusCh, errCh := r.api.ContainerWait(runCtx, created.ID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.StatusCode == 0 {
			return nil
		}

		err := domain.ConversionProcessError{
			ExitCode:    int(status.StatusCode),
			Source:      source,
			Destination: destination,
		}
		if status.Error != nil {
			err.Reason = status.Error.Message
		}
		logger.Error(err)
		return err

	case err := <-errCh:
		if timedOut(ctx, runCtx) {
			err := domain.TimeoutError{Timeout: r.timeout, Source: source, Destination: destination}
			logger.Error(err)
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		return fmt.Errorf("unable to wait for container %s: %w", created.ID, err)
	}
}
