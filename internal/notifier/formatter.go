package notifier

import (
	"fmt"
	"strings"

	"YieldBoard/internal/model"
)

// FormatRunReport formats a pipeline run summary into a Telegram message.
func FormatRunReport(summary *model.RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>YieldBoard 更新完成</b> | %s\n\n", summary.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("数据源: %s\n", summary.Source))
	b.WriteString(fmt.Sprintf("REITs: 抓取 %d/%d, 产出 %d\n", summary.ReitsFetched, summary.ReitsTotal, summary.ReitsProcessed))
	b.WriteString(fmt.Sprintf("ETFs: 抓取 %d/%d, 产出 %d\n", summary.EtfsFetched, summary.EtfsTotal, summary.EtfsProcessed))
	b.WriteString(fmt.Sprintf("耗时: %.1fs\n", summary.Duration.Seconds()))
	b.WriteString(fmt.Sprintf("下次更新: %s\n", summary.NextUpdate.Format("2006-01-02 15:04 MST")))

	failed := (summary.ReitsTotal - summary.ReitsFetched) + (summary.EtfsTotal - summary.EtfsFetched)
	if failed > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ %d 个代码抓取失败，详见日志\n", failed))
	}
	return b.String()
}
