package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuqie6/LearnPulse/internal/analytics"
	"github.com/yuqie6/LearnPulse/internal/bootstrap"
	"github.com/yuqie6/LearnPulse/internal/pkg/buildinfo"
	"github.com/yuqie6/LearnPulse/internal/pkg/config"
	"github.com/yuqie6/LearnPulse/internal/service"
)

var (
	cfgFile string
	userID  string
	core    *bootstrap.Core
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pulse",
		Short:   "LearnPulse - 学习活动统计与洞察",
		Long:    `LearnPulse 记录每日学习活动与技能熟练度，计算连续天数、一致性并生成学习洞察。`,
		Version: buildinfo.Version,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "用户 ID（默认使用配置 app.default_user）")

	rootCmd.AddCommand(withCore(statsCmd()))
	rootCmd.AddCommand(withCore(insightsCmd()))
	rootCmd.AddCommand(withCore(logCmd()))
	rootCmd.AddCommand(withCore(skillsCmd()))
	rootCmd.AddCommand(withCore(achievementsCmd()))
	rootCmd.AddCommand(withCore(seedCmd()))
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withCore 在命令执行前后打开/关闭数据库
func withCore(cmd *cobra.Command) *cobra.Command {
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		var err error
		core, err = bootstrap.NewCore(cfgFile)
		if err != nil {
			fmt.Printf("❌ 初始化失败: %v\n", err)
			os.Exit(1)
		}
		if core.DB.SafeMode {
			fmt.Printf("❌ 数据库处于安全模式: %s\n", core.DB.MigrationError)
			os.Exit(1)
		}
		if strings.TrimSpace(userID) == "" {
			userID = core.Cfg.App.DefaultUser
		}
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if core != nil {
			_ = core.Close()
		}
	}
	return cmd
}

func fail(msg string, err error) {
	fmt.Printf("❌ %s: %v\n", msg, err)
	if core != nil {
		_ = core.Close()
	}
	os.Exit(1)
}

// statsCmd 仪表盘统计
func statsCmd() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "查看学习统计",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			d, err := core.Services.Dashboard.GetDashboard(ctx, userID, window)
			if err != nil {
				fail("计算统计失败", err)
			}
			if window == 0 {
				window = core.Services.Dashboard.WindowDays()
			}

			s := d.Summary
			fmt.Printf("📊 %s 的学习统计\n", userID)
			fmt.Println("═══════════════════════════════════════")
			fmt.Printf("  • 总活动数: %d\n", s.TotalActivities)
			fmt.Printf("  • 当前连续: %d 天\n", s.CurrentStreak)
			fmt.Printf("  • 最长连续: %d 天\n", s.LongestStreak)
			fmt.Printf("  • 一致性(%d 天): %d%%\n", window, s.ConsistencyRate)
			fmt.Printf("  • 已掌握技能: %d\n", s.SkillsLearned)

			if len(d.TopSkills) > 0 {
				fmt.Printf("\n🏅 技能排行\n")
				for _, sk := range d.TopSkills {
					fmt.Printf("  • %-16s %-10s %3d\n", sk.SkillName, sk.Category, sk.Level)
				}
			}
			fmt.Println("\n═══════════════════════════════════════")
		},
	}

	cmd.Flags().IntVarP(&window, "window", "w", 0, "一致性窗口天数（默认取配置）")
	return cmd
}

// insightsCmd 生成并展示洞察
func insightsCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "生成学习洞察",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if history {
				rows, err := core.Services.Dashboard.ListInsights(ctx, userID, false, 20)
				if err != nil {
					fail("查询洞察失败", err)
				}
				if len(rows) == 0 {
					fmt.Println("💤 暂无洞察记录")
					return
				}
				for _, in := range rows {
					mark := "●"
					if in.IsRead {
						mark = "○"
					}
					fmt.Printf("%s %s %s\n    %s\n", mark, in.Icon, in.Title, in.Description)
				}
				return
			}

			insights, err := core.Services.Dashboard.RefreshInsights(ctx, userID)
			if err != nil {
				fail("生成洞察失败", err)
			}
			if len(insights) == 0 {
				fmt.Println("💤 暂无洞察，先记录一些学习活动吧")
				return
			}
			for _, in := range insights {
				fmt.Printf("%s [%s] %s\n    %s\n", in.Icon, in.Category, in.Title, in.Description)
			}
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "查看已保存的洞察（含已读）")
	return cmd
}

// logCmd 记录学习活动
func logCmd() *cobra.Command {
	var (
		count        int
		activityType string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "log [描述]",
		Short: "记录一次学习活动",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			desc := ""
			if len(args) > 0 {
				desc = args[0]
			}
			saved, err := core.Services.Activities.LogActivity(context.Background(), service.LogActivityRequest{
				UserID:      userID,
				Type:        activityType,
				Description: desc,
				Count:       count,
				Date:        date,
			})
			if err != nil {
				fail("记录活动失败", err)
			}
			fmt.Printf("✅ %s 已记录，当天累计 %d 次\n", saved.Date, saved.Count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "活动次数")
	cmd.Flags().StringVarP(&activityType, "type", "t", "learning", "活动类型")
	cmd.Flags().StringVarP(&date, "date", "d", "", "日期 YYYY-MM-DD（默认今天）")
	return cmd
}

// skillsCmd 查看或设置技能
func skillsCmd() *cobra.Command {
	var (
		top    int
		search string
	)

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "查看技能熟练度",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			var (
				skills []analytics.SkillLevel
				err    error
			)
			if search != "" {
				skills, err = core.Services.Skills.SearchSkills(ctx, userID, search)
			} else {
				skills, err = core.Services.Skills.TopSkills(ctx, userID, top)
			}
			if err != nil {
				fail("查询技能失败", err)
			}
			if len(skills) == 0 {
				fmt.Println("📚 还没有技能记录")
				fmt.Println("   使用 'pulse skills set <名称> <等级>' 添加技能")
				return
			}
			fmt.Printf("🌳 技能 (共 %d 个)\n", len(skills))
			for _, sk := range skills {
				bar := strings.Repeat("█", sk.Level/10) + strings.Repeat("░", 10-sk.Level/10)
				fmt.Printf("  %-16s %s %3d  %s\n", sk.SkillName, bar, sk.Level, sk.Category)
			}
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 0, "只显示前 N 个")
	cmd.Flags().StringVarP(&search, "search", "s", "", "按名称模糊搜索")

	var category string
	setCmd := &cobra.Command{
		Use:   "set <名称> <等级>",
		Short: "设置技能等级 (0-100)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			var level int
			if _, err := fmt.Sscanf(args[1], "%d", &level); err != nil {
				fail("等级必须是整数", err)
			}
			saved, err := core.Services.Skills.SetSkillLevel(context.Background(), service.SetSkillRequest{
				UserID:    userID,
				SkillName: args[0],
				Category:  category,
				Level:     level,
			})
			if err != nil {
				fail("设置技能失败", err)
			}
			fmt.Printf("✅ %s = %d\n", saved.SkillName, saved.Level)
		},
	}
	setCmd.Flags().StringVar(&category, "category", "", "技能分类，如 Frontend/Backend/Language/Tools")
	cmd.AddCommand(setCmd)

	return cmd
}

// achievementsCmd 徽章
func achievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "查看成就徽章",
		Run: func(cmd *cobra.Command, args []string) {
			list, err := core.Services.Dashboard.Achievements(context.Background(), userID)
			if err != nil {
				fail("计算成就失败", err)
			}
			unlocked := 0
			for _, a := range list {
				state := "🔒"
				if a.Unlocked {
					state = "✅"
					unlocked++
				}
				fmt.Printf("%s %s %-16s %s\n", state, a.Icon, a.Name, a.Description)
			}
			fmt.Printf("\n已解锁 %d/%d\n", unlocked, len(list))
		},
	}
}

// seedCmd 写入演示数据
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "为用户写入 30 天演示数据（已有活动时跳过）",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			res, err := core.Services.Seed.Seed(ctx, userID)
			if err != nil {
				fail("写入演示数据失败", err)
			}
			if res.Skipped {
				fmt.Printf("⏭️  %s 已有活动，跳过\n", userID)
				return
			}
			if _, err := core.Services.Dashboard.RefreshInsights(ctx, userID); err != nil {
				fail("生成洞察失败", err)
			}
			fmt.Printf("✅ 已写入 %d 天活动、%d 个技能\n", res.Activities, res.Skills)
		},
	}
}

// configCmd 配置管理
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "配置管理",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "生成默认配置文件",
		Run: func(cmd *cobra.Command, args []string) {
			path := cfgFile
			if path == "" {
				p, err := config.DefaultConfigPath()
				if err != nil {
					fail("获取默认配置路径失败", err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Printf("⚠️ 配置文件已存在: %s（使用 --force 覆盖）\n", path)
				return
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				fail("检查配置文件失败", err)
			}
			if err := config.WriteFile(path, config.Default()); err != nil {
				fail("写入配置失败", err)
			}
			fmt.Printf("✅ 已生成配置: %s\n", path)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "覆盖已有配置")
	cmd.AddCommand(initCmd)

	return cmd
}
