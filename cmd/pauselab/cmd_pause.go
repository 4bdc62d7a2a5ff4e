package main

import (
	"bufio"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/timer"
)

func (c *cli) pauseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Browse, take and record pauses",
	}

	cmd.AddCommand(c.pauseListCmd(), c.pauseNextCmd(), c.pauseRecordCmd(), c.pauseRunCmd())
	return cmd
}

func (c *cli) pauseListCmd() *cobra.Command {
	var (
		category   string
		favourites bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pauses by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := c.app.progress.State().Data

			if favourites {
				for _, p := range c.app.catalog.Favourites(data.FavouritePauses) {
					c.printPauseLine(p, true)
				}
				return nil
			}

			for _, cat := range c.app.catalog.Categories() {
				if category != "" && string(cat.Key) != category {
					continue
				}
				c.printf("%s\n", cat.Label)
				for _, p := range c.app.catalog.ByCategory(cat.Key) {
					c.printPauseLine(p, data.IsFavourite(p.ID))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().BoolVar(&favourites, "favourites", false, "only favourite pauses")

	return cmd
}

func (c *cli) printPauseLine(p model.Pause, favourite bool) {
	mark := " "
	if favourite {
		mark = "*"
	}
	c.printf(" %s %-14s %-20s %s\n", mark, p.ID, p.Title, p.DurationLabel)
}

func (c *cli) printPause(p model.Pause) {
	label := string(p.Category)
	if cat, ok := c.app.catalog.Category(p.Category); ok {
		label = cat.Label
	}
	c.printf("%s (%s, %s) [%s]\n%s\nSource: %s\n", p.Title, label, p.DurationLabel, p.ID, p.Instruction, p.Citation)
}

func (c *cli) pauseNextCmd() *cobra.Command {
	var exclude string

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Suggest a random pause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.printPause(c.app.catalog.Random(c.rnd, exclude))
			return nil
		},
	}

	cmd.Flags().StringVar(&exclude, "exclude", "", "pause id to skip, usually the one just shown")

	return cmd
}

func (c *cli) pauseRecordCmd() *cobra.Command {
	var (
		feeling   string
		doneEarly bool
	)

	cmd := &cobra.Command{
		Use:   "record <pause-id>",
		Short: "Record a finished pause and how you felt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.catalog.ByID(args[0])
			if err != nil {
				return err
			}
			f, err := model.ParseFeeling(feeling)
			if err != nil {
				return err
			}

			return c.recordPause(cmd, p, f, doneEarly)
		},
	}

	cmd.Flags().StringVar(&feeling, "feeling", "", "worse, same or better")
	cmd.Flags().BoolVar(&doneEarly, "early", false, "the pause was finished early")
	_ = cmd.MarkFlagRequired("feeling")

	return cmd
}

func (c *cli) pauseRunCmd() *cobra.Command {
	var feeling string

	cmd := &cobra.Command{
		Use:   "run [pause-id]",
		Short: "Run a pause with a countdown; press Enter to finish early",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := c.app.catalog.Random(c.rnd, "")
			if len(args) == 1 {
				var err error
				if p, err = c.app.catalog.ByID(args[0]); err != nil {
					return err
				}
			}

			c.printPause(p)

			// A countdown second lasts one tick.
			countdown := timer.New(time.Duration(p.DurationSeconds) * c.tick)
			countdown.Tick = c.tick

			var running atomic.Bool
			running.Store(true)
			early := make(chan struct{})
			answers := make(chan string, 1)
			go func() {
				defer close(answers)
				sc := bufio.NewScanner(c.in)
				for sc.Scan() {
					if running.CompareAndSwap(true, false) {
						close(early)
						continue
					}
					answers <- sc.Text()
					return
				}
			}()

			out := countdown.Run(cmd.Context(), early, func(remaining time.Duration) {
				c.printf("\r%s ", timer.Format(time.Duration(remaining/c.tick)*time.Second))
			})
			running.Store(false)
			c.printf("\n")

			if err := cmd.Context().Err(); err != nil {
				return err
			}

			if !cmd.Flags().Changed("feeling") {
				c.printf("%s [worse/same/better]\n", c.app.catalog.FeelingQuestion(c.rnd))
				answer, ok := <-answers
				if !ok {
					return fmt.Errorf("%w: no answer given", model.ErrInvalidFeeling)
				}
				feeling = strings.ToLower(strings.TrimSpace(answer))
			}

			f, err := model.ParseFeeling(feeling)
			if err != nil {
				return err
			}

			return c.recordPause(cmd, p, f, out.DoneEarly)
		},
	}

	cmd.Flags().StringVar(&feeling, "feeling", "", "how you felt afterwards: worse, same or better; asked when omitted")

	return cmd
}

func (c *cli) recordPause(cmd *cobra.Command, p model.Pause, feeling model.Feeling, doneEarly bool) error {
	data, err := c.app.progress.RecordPause(cmd.Context(), p.ID, feeling, doneEarly)
	if err != nil {
		return err
	}

	c.printf("Recorded %s (%s). %d pause(s) so far.\n", p.Title, feeling, len(data.CompletedPauses))
	return nil
}

func (c *cli) favouriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favourite <pause-id>",
		Short: "Add or remove a pause from favourites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.app.catalog.ByID(args[0])
			if err != nil {
				return err
			}

			data, err := c.app.progress.ToggleFavourite(cmd.Context(), p.ID)
			if err != nil {
				return err
			}

			if data.IsFavourite(p.ID) {
				c.printf("Added %s to favourites\n", p.Title)
			} else {
				c.printf("Removed %s from favourites\n", p.Title)
			}
			return nil
		},
	}
}
