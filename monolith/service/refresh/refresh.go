package refresh

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/monolith/partition"
	"github.com/mycok/uLookup/task"
)

// Service periodically schedules low priority look-ups for the links of
// its link graph partition that were retrieved too long ago. It satisfies
// the service.Service interface.
type Service struct {
	config Config
}

// New creates and returns a fully configured refresh service instance.
func New(config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("refresh service: config validation failed: %w", err)
	}

	return &Service{config: config}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "refresh" }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs.
func (svc *Service) Run(ctx context.Context) error {
	svc.config.Logger.WithFields(logrus.Fields{
		"interval":  svc.config.Interval.String(),
		"threshold": svc.config.Threshold.String(),
	}).Info("starting service")
	defer svc.config.Logger.Info("stopped service")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-svc.config.Clock.After(svc.config.Interval):
			currPartition, numOfPartitions, err := svc.config.PartitionDetector.PartitionInfo()
			if err != nil {
				if errors.Is(err, partition.ErrNoPartitionDataAvailableYet) {
					svc.config.Logger.Warn("deferring refresh pass: partition data not yet available")

					continue
				}

				return err
			}

			if err := svc.refresh(ctx, currPartition, numOfPartitions); err != nil {
				return err
			}
		}
	}
}

func (svc *Service) refresh(ctx context.Context, currPartition, numOfPartitions int) error {
	fullRange, err := partition.NewFullRange(numOfPartitions)
	if err != nil {
		return fmt.Errorf("refresh: unable to compute ID ranges for partition: %w", err)
	}

	fromID, toID, err := fullRange.PartitionRange(currPartition)
	if err != nil {
		return fmt.Errorf("refresh: unable to compute ID ranges for partition: %w", err)
	}

	logger := svc.config.Logger.WithFields(logrus.Fields{
		"partition":         currPartition,
		"num_of_partitions": numOfPartitions,
	})
	logger.Info("starting refresh pass")

	startedAt := svc.config.Clock.Now()
	linkIt, err := svc.config.GraphAPI.Links(fromID, toID, startedAt.Add(-svc.config.Threshold))
	if err != nil {
		return fmt.Errorf("refresh: unable to retrieve links iterator: %w", err)
	}

	dictionary := svc.config.Requester.Dictionary()

	var requested, failed int
	for ctx.Err() == nil && linkIt.Next() {
		link := linkIt.Link()

		// Links that were discovered but never retrieved are left to the
		// look-ups that discovered them.
		if link.RetrievedAt.IsZero() {
			continue
		}

		id := dictionary.Intern(link.URL)
		_, err := svc.config.Requester.RequestLookUp(
			ctx, id, task.PriorityLow, svc.config.Relookup, nil, nil,
		)

		switch {
		case err == nil:
			requested++
		case errors.Is(err, task.ErrNotAccepting):
			// The scheduler is going away; so is this service.
			_ = linkIt.Close()

			return nil
		default:
			failed++
			logger.WithFields(logrus.Fields{
				"url": link.URL,
				"err": err,
			}).Warn("unable to request look-up")
		}
	}

	if err = linkIt.Error(); err != nil {
		_ = linkIt.Close()

		return fmt.Errorf("refresh: unable to iterate links: %w", err)
	}

	if err = linkIt.Close(); err != nil {
		return fmt.Errorf("refresh: unable to iterate links: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"requested_count": requested,
		"failed_count":    failed,
		"elapsed_time":    svc.config.Clock.Now().Sub(startedAt).String(),
	}).Info("completed refresh pass")

	return nil
}
