package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/moshegoodman/zoozz2-sub000/internal/config"
	"github.com/moshegoodman/zoozz2-sub000/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
)

// 邮件正文直接内嵌在二进制里，省去部署时带模板文件的麻烦
var mailTemplates = map[string]*template.Template{
	"create_user": template.Must(template.New("create_user").Parse(`
		<p>{{.fullName}}，您好：</p>
		<p>已为您开通 zoozz2 平台账号。</p>
		<p>用户名：<b>{{.username}}</b></p>
		<p>初始密码：<b>{{.password}}</b></p>
		<p>请登录后尽快修改密码。</p>
	`)),
	"reset_password": template.Must(template.New("reset_password").Parse(`
		<p>{{.fullName}}，您好：</p>
		<p>您正在重置 zoozz2 平台的登录密码，验证码为：</p>
		<p><b>{{.otp}}</b></p>
		<p>验证码 {{.expiration}} 分钟内有效，如非本人操作请忽略本邮件。</p>
	`)),
	"test": template.Must(template.New("test").Parse(`
		<p>这是一条来自 zoozz2 平台的测试消息：</p>
		<p>{{.body}}</p>
	`)),
}

var mailSubjects = map[string]string{
	"create_user":    "zoozz2 平台 - 账户信息",
	"reset_password": "zoozz2 平台 - 重置密码",
	"test":           "zoozz2 平台 - 测试消息",
}

// sendGatewayMessage 通过短信/WhatsApp 网关发送一条文本消息。
// 网关是个黑盒，只约定了 {success, message} 这一个响应形状
func sendGatewayMessage(cfg *config.Config, channel domain.NotificationChannel, to string, body string) error {
	payload, err := json.Marshal(map[string]string{
		"channel": string(channel),
		"sender":  cfg.Messaging.SenderName,
		"to":      to,
		"body":    body,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Messaging.RequestTimeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Messaging.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.Messaging.GatewayToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("网关响应无法解析：%w", err)
	}
	if !result.Success {
		return fmt.Errorf("网关拒绝发送：%s", result.Message)
	}
	return nil
}

// textBody 短信和 WhatsApp 只支持纯文本
func textBody(messageType string, data map[string]any) (string, bool) {
	switch messageType {
	case "test":
		body, _ := data["body"].(string)
		return body, true
	case "reset_password":
		otp, _ := data["otp"].(string)
		return fmt.Sprintf("【zoozz2】您的重置密码验证码是 %s", otp), true
	default:
		return "", false
	}
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	// 创建通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	// 声明队列
	q, err := ch.QueueDeclare(
		"notification_queue", // 队列名称
		true,                 // 是否持久化
		false,                // 是否自动删除，设置为 false 可以避免没有消费者的时候自动删除队列
		false,                // 是否独占，即是否允许多个消费者访问这个队列
		false,                // 是否不等待，设置为 false，即等待 RabbitMQ 确认队列是否创建成功
		nil,                  // 额外参数
	)
	if err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 消费消息
	msgs, err := ch.Consume(
		q.Name, // 队列
		"",     // 消费者标识，设置为空字符串，表示由 RabbitMQ 自动分配
		false,  // 是否自动确认消息
		false,  // 是否独占队列
		false,  // 是否禁止消费者接受自己发送的消息，必须设置为 false，因为 RabbitMQ 不支持这个参数
		false,  // 是否不等待，等待 RabbitMQ 响应
		nil,    // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("收到消息", slog.String("message", string(msg.Body)))

				var message struct {
					Channel domain.NotificationChannel `json:"channel"`
					Type    string                     `json:"type"`
					To      string                     `json:"to"`
					Data    map[string]any             `json:"data"`
				}
				if err := json.Unmarshal(msg.Body, &message); err != nil {
					logger.Error("通知消息反序列化失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				switch message.Channel {
				case domain.ChannelEmail:
					tmpl, ok := mailTemplates[message.Type]
					if !ok {
						logger.Error("不支持的邮件类型", slog.String("type", message.Type))
						_ = msg.Nack(false, false)
						continue
					}

					m := mail.NewMsg()
					if err := m.From(cfg.Email.SMTP.Username); err != nil {
						logger.Error("无法设置邮件发件人", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.To(message.To); err != nil {
						logger.Error("无法设置邮件收件人", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					if err := m.SetBodyHTMLTemplate(tmpl, message.Data); err != nil {
						logger.Error("无法设置邮件正文", slog.String("error", err.Error()))
						_ = msg.Nack(false, false)
						continue
					}
					m.Subject(mailSubjects[message.Type])

					if err := client.DialAndSend(m); err != nil {
						logger.Error("邮件发送失败", slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // 将消息重新入队
						continue
					}
				case domain.ChannelSMS, domain.ChannelWhatsApp:
					body, ok := textBody(message.Type, message.Data)
					if !ok {
						logger.Error("该消息类型不支持文本渠道", slog.String("type", message.Type))
						_ = msg.Nack(false, false)
						continue
					}

					if err := sendGatewayMessage(cfg, message.Channel, message.To, body); err != nil {
						logger.Error("网关消息发送失败", slog.String("error", err.Error()))
						_ = msg.Nack(false, true) // 将消息重新入队
						continue
					}
				default:
					logger.Error("不支持的通知渠道", slog.String("channel", string(message.Channel)))
					_ = msg.Nack(false, false)
					continue
				}

				// 确认消息
				_ = msg.Ack(false)
			}
		}
	}()

	// 等待 CTRL+C 信号
	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	// 优雅退出
	slog.Info("正在关闭 notify worker...")
	cancel()
	wg.Wait() // 等待所有 goroutine 完成
	slog.Info("notify worker 已成功关闭")
}
