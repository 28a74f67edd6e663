// main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Slade66/todo-notifier/internal/apiclient"
	"github.com/Slade66/todo-notifier/internal/board"
	"github.com/Slade66/todo-notifier/internal/config"
	"github.com/Slade66/todo-notifier/internal/logging"
	"github.com/Slade66/todo-notifier/internal/observer"
	"github.com/Slade66/todo-notifier/internal/todo"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "todo-notifier",
	Short: "演示闭包订阅和委托两种完成通知方式",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(v.GetString("log_level"))
	},
}

var closureCmd = &cobra.Command{
	Use:   "closure",
	Short: "闭包风格：每个 Todo 可以有多个订阅者",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		board.RunClosure(cmd.OutOrStdout())
	},
}

var delegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "委托风格：看板是所有 Todo 唯一的委托",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		b := board.RunDelegate(cmd.OutOrStdout(), observer.NewDirectory[*todo.Todo]())
		b.Close()
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "请求 <base-url>/get，拿到结果后完成一个 Todo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(v)
		return runFetch(cmd.Context(), cmd.OutOrStdout(), cfg.BaseURL, v.GetString("style"))
	},
}

type fetchResult struct {
	dict map[string]any
	err  error
}

// channelDelegate 把委托回调转成 channel 消息，让完成状态回到主 goroutine 上修改
type channelDelegate chan<- fetchResult

func (c channelDelegate) Response(dict map[string]any) {
	c <- fetchResult{dict: dict}
}

// runFetch 发起请求，拿到结果后在当前 goroutine 上完成 "fetch" Todo
func runFetch(ctx context.Context, out io.Writer, baseURL, style string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make(chan fetchResult, 1)
	handler := apiclient.NewHandler(baseURL, nil, nil)

	var result fetchResult
	switch style {
	case string(board.StyleClosure):
		log.Info("requestClosure")
		handler.GetWithCompletion(ctx, func(dict map[string]any, err error) {
			results <- fetchResult{dict: dict, err: err}
		})
		result = <-results
	case string(board.StyleDelegate):
		log.Info("requestDelegate")
		handler.SetDelegate(channelDelegate(results))
		done := handler.Get(ctx)
		select {
		case result = <-results:
		case <-done:
			// 委托只在成功时被调用
			select {
			case result = <-results:
			default:
				result.err = errors.Errorf("request to %s failed, see log", handler.URL())
			}
		}
	default:
		return errors.Errorf("unknown style %q, want closure or delegate", style)
	}
	if result.err != nil {
		return result.err
	}

	item := todo.New(1, "fetch "+handler.URL(), nil)
	item.Subscribe(func(t *todo.Todo) {
		fmt.Fprintf(out, "Do something with todo: %s\n", t.Title)
		keys := make([]string, 0, len(result.dict))
		for k := range result.dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  %s: %v\n", k, result.dict[k])
		}
	})
	item.SetCompleted(true)
	return nil
}

func init() {
	config.SetDefaults(v)
	v.SetDefault("style", string(board.StyleClosure))

	rootCmd.PersistentFlags().String("log-level", "info", "日志级别")
	rootCmd.PersistentFlags().String("base-url", "https://httpbin.org", "fetch 请求的服务地址")
	fetchCmd.Flags().String("style", string(board.StyleClosure), "回调方式: closure 或 delegate")

	v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	v.BindPFlag("style", fetchCmd.Flags().Lookup("style"))

	rootCmd.AddCommand(closureCmd, delegateCmd, fetchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
