package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"sheet-unfold-go/internal/client"
	"sheet-unfold-go/internal/service"
	"sheet-unfold-go/internal/sketch"
	"sheet-unfold-go/internal/table"
	"sheet-unfold-go/internal/unfold"
	"sheet-unfold-go/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	if err := newApp(logger, os.Stdout).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("Ошибка: %v", err)
	}
}

// localFlags влияют только на расчет в текущем процессе
var localFlags = []string{"thickness-default", "width", "height"}

// newApp собирает команды CLI. Результаты печатаются в out.
func newApp(logger *logrus.Logger, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "unfold",
		Usage:  "расчет развертки листовых деталей по таблице Excel",
		Writer: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "подробный лог в stderr",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				logger.SetLevel(logrus.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "compute",
				Usage: "рассчитать развертку и сохранить выгрузки",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "входная таблица .xlsx",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "server",
						Usage:   "адрес сервиса развертки; без него расчет выполняется локально",
						Sources: cli.EnvVars("UNFOLD_SERVER"),
					},
					&cli.StringFlag{
						Name:  "xlsx",
						Usage: "путь для дополненной таблицы",
					},
					&cli.StringFlag{
						Name:  "png",
						Usage: "путь для эскиза PNG",
					},
					&cli.StringFlag{
						Name:  "dxf",
						Usage: "путь для контура DXF",
					},
					&cli.FloatFlag{
						Name:  "thickness-default",
						Usage: "толщина, если в таблице она не указана (мм); только без --server",
						Value: unfold.DefaultThickness,
					},
					&cli.IntFlag{
						Name:  "width",
						Usage: "ширина эскиза в пикселях; только без --server",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "высота эскиза в пикселях; только без --server",
						Value: 600,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if server := cmd.String("server"); server != "" {
						for _, name := range localFlags {
							if cmd.IsSet(name) {
								return fmt.Errorf("flag --%s has no effect with --server: the service uses its own configuration", name)
							}
						}
						return computeRemote(cmd, client.NewUnfoldClient(server, time.Minute, logger))
					}

					renderer, err := sketch.NewRenderer(int(cmd.Int("width")), int(cmd.Int("height")))
					if err != nil {
						return err
					}
					svc := service.NewUnfoldService(unfold.NewCalculator(), renderer, cmd.Float("thickness-default"), logger)
					return computeLocal(cmd, svc)
				},
			},
			{
				Name:  "health",
				Usage: "проверить состояние сервиса развертки",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "server",
						Sources:  cli.EnvVars("UNFOLD_SERVER"),
						Required: true,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					health, err := client.NewUnfoldClient(cmd.String("server"), 10*time.Second, logger).CheckHealth()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(cmd.Root().Writer, "%s (%s)\n", health.Status, health.Version)
					return err
				},
			},
		},
	}
}

// computeLocal рассчитывает развертку в текущем процессе
func computeLocal(cmd *cli.Command, svc *service.UnfoldService) error {
	f, err := os.Open(cmd.String("input"))
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	t, err := table.ReadXLSX(f)
	if err != nil {
		return err
	}

	calc, err := svc.Calculate(t)
	if err != nil {
		return err
	}
	if err := printResult(cmd.Root().Writer, service.Response(calc)); err != nil {
		return err
	}

	outputs := []struct {
		path  string
		write func(io.Writer, *service.Calculation) error
	}{
		{cmd.String("xlsx"), svc.WriteXLSX},
		{cmd.String("png"), svc.WritePNG},
		{cmd.String("dxf"), svc.WriteDXF},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := writeFile(o.path, func(w io.Writer) error { return o.write(w, calc) }); err != nil {
			return err
		}
	}
	return nil
}

// computeRemote отправляет таблицу на сервис развертки
func computeRemote(cmd *cli.Command, c *client.UnfoldClient) error {
	input := cmd.String("input")
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	name := filepath.Base(input)

	resp, err := c.Upload(name, data)
	if err != nil {
		return err
	}
	if err := printResult(cmd.Root().Writer, resp); err != nil {
		return err
	}

	outputs := []struct {
		path     string
		endpoint string
	}{
		{cmd.String("xlsx"), "export"},
		{cmd.String("png"), "sketch.png"},
		{cmd.String("dxf"), "sketch.dxf"},
	}
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		body, err := c.Download(o.endpoint, name, data)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.path, body, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", o.path, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printResult печатает дополненную таблицу, итог и предупреждения
func printResult(out io.Writer, resp *models.UnfoldResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	for i, col := range resp.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)

	for _, row := range resp.Rows {
		for i, col := range resp.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, formatCell(col, row[col]))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nDesarrollo total: %s (e = %.2f mm)\n", resp.TotalDisplay, resp.Thickness)
	for _, w := range resp.Warnings {
		fmt.Fprintf(out, "Aviso fila %d: %s\n", w.Index, w.Message)
	}
	return nil
}

func formatCell(column string, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case float64:
		if column == table.ColumnDeveloped {
			return fmt.Sprintf("%.2f", v)
		}
	}
	return fmt.Sprint(value)
}
