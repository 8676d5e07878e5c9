// Package export 将公司统计结果导出为 CSV。
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/iWorld-y/tech_radar/pkg/collection"
	"github.com/iWorld-y/tech_radar/pkg/model"
)

// ContentType CSV 下载的 MIME 类型
const ContentType = "text/csv"

// Header 第一列为行号，列名为空
var Header = []string{"", "Name", "Count"}

// WriteCSV 写出表头与各行，行号为导出顺序中的位置，从 0 开始，不是首次出现的顺序
func WriteCSV(w io.Writer, mentions []model.Mention) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i, m := range mentions {
		if err := cw.Write([]string{strconv.Itoa(i), m.Name, strconv.Itoa(m.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename 下载文件名 {date}_{technology}.csv
func Filename(date time.Time, technology string) string {
	return collection.Key(date, technology) + ".csv"
}
