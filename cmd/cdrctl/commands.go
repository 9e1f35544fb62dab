package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/cxv4/cdr-go/pkg/cdr"
)

var errUsage = errors.New("usage")

// client is the part of *cdr.Library the commands use.
type client interface {
	RegisterSimpleChannel(name string, cb *cdr.ChannelCallback, priv cdr.Opaque) (int, error)
	SetChannelValue(handle int, value float64) error
	GetChannelValue(handle int) (float64, error)
	RegisterBigBlock(name string, maxDataSize int, cb *cdr.BigBlockCallback, priv cdr.Opaque) (int, error)
	SetBigBlockParam(handle, n, value int) error
	GetBigBlockParam(handle, n int) (int, error)
}

type runner struct {
	lib      client
	out      io.Writer
	interval time.Duration
	bigcSize int
}

func (r *runner) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "get-chan":
		return r.getChan(args)
	case "set-chan":
		return r.setChan(args)
	case "get-param":
		return r.getParam(args)
	case "set-param":
		return r.setParam(args)
	case "watch":
		return r.watch(ctx, args)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func wantArgs(cmd string, args []string, n int, names string) error {
	if len(args) != n {
		return fmt.Errorf("%w: %s %s", errUsage, cmd, names)
	}
	return nil
}

func (r *runner) getChan(args []string) error {
	if err := wantArgs("get-chan", args, 1, "NAME"); err != nil {
		return err
	}
	h, err := r.lib.RegisterSimpleChannel(args[0], nil, nil)
	if err != nil {
		return err
	}
	v, err := r.lib.GetChannelValue(h)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "%s %s\n", args[0], strconv.FormatFloat(v, 'g', -1, 64))
	return err
}

func (r *runner) setChan(args []string) error {
	if err := wantArgs("set-chan", args, 2, "NAME VALUE"); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("%w: value %q: %v", errUsage, args[1], err)
	}
	h, err := r.lib.RegisterSimpleChannel(args[0], nil, nil)
	if err != nil {
		return err
	}
	return r.lib.SetChannelValue(h, v)
}

func (r *runner) getParam(args []string) error {
	if err := wantArgs("get-param", args, 2, "NAME N"); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: parameter index %q: %v", errUsage, args[1], err)
	}
	h, err := r.lib.RegisterBigBlock(args[0], r.bigcSize, nil, nil)
	if err != nil {
		return err
	}
	v, err := r.lib.GetBigBlockParam(h, n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "%s[%d] %d\n", args[0], n, v)
	return err
}

func (r *runner) setParam(args []string) error {
	if err := wantArgs("set-param", args, 3, "NAME N VALUE"); err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: parameter index %q: %v", errUsage, args[1], err)
	}
	v, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("%w: value %q: %v", errUsage, args[2], err)
	}
	h, err := r.lib.RegisterBigBlock(args[0], r.bigcSize, nil, nil)
	if err != nil {
		return err
	}
	return r.lib.SetBigBlockParam(h, n, v)
}

// watch prints channel updates delivered by callbacks and, with a non-zero
// interval, polls for changes the library did not report.
func (r *runner) watch(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: watch NAME...", errUsage)
	}

	var mu sync.Mutex
	last := make(map[int]float64, len(names))
	emit := func(name string, handle int, v float64) {
		mu.Lock()
		defer mu.Unlock()
		if prev, ok := last[handle]; ok && prev == v {
			return
		}
		last[handle] = v
		fmt.Fprintf(r.out, "%s %s %s\n", time.Now().Format(time.RFC3339Nano), name, strconv.FormatFloat(v, 'g', -1, 64))
	}

	cb := cdr.MakeChannelCallback(func(handle int, value float64, priv cdr.Opaque) int {
		emit(priv.(string), handle, value)
		return 0
	})

	handles := make(map[string]int, len(names))
	for _, name := range names {
		h, err := r.lib.RegisterSimpleChannel(name, cb, name)
		if err != nil {
			return err
		}
		handles[name] = h
	}

	if r.interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		for _, name := range names {
			v, err := r.lib.GetChannelValue(handles[name])
			if err != nil {
				return err
			}
			emit(name, handles[name], v)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
