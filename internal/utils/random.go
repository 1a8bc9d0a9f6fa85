package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/workday-planner/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromChineseName 由姓名的拼音前缀加上随机数字组成，例如 王伟 -> wanwe42
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomDate 返回 start 之后 days 天内的随机日期
func GenerateRandomDate(start string, days int) (string, error) {
	t, err := time.Parse(domain.DateLayout, start)
	if err != nil {
		return "", err
	}
	if days <= 0 {
		return t.Format(domain.DateLayout), nil
	}

	return t.AddDate(0, 0, rand.Intn(days)).Format(domain.DateLayout), nil
}

// GenerateRandomShiftWindow 把一天均分为 slots 段，在第 slot 段中随机生成班次的开始和结束时间。
// 不同段生成的班次开始时间和结束时间都不会相同
func GenerateRandomShiftWindow(slot, slots int) (string, string) {
	if slots <= 0 || slots > 24 {
		slots = 24
	}
	slot %= slots
	hourPerSlot := 24 / slots

	startHour := slot * hourPerSlot
	endHour := rand.Intn(hourPerSlot) + startHour

	startMinute := rand.Intn(30)    // 0~29
	endMinute := rand.Intn(30) + 30 // 30~59

	return fmt.Sprintf("%02d:%02d:00", startHour, startMinute), fmt.Sprintf("%02d:%02d:00", endHour, endMinute)
}
